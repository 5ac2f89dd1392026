// Package endpoint defines the sequential byte source/sink contract consumed
// by the streams package, together with in-memory, file-backed and hashing
// implementations.
//
// An Endpoint is a strictly sequential device: forward reads or forward
// writes, no seeking. The one concession to rewinding is push-back, which
// returns previously read bytes to the front of the stream so that a later
// reader observes them again. The stream adapter relies on push-back to
// leave an endpoint positioned exactly after the compressed stream's
// trailer, so that anything following it (for example a second concatenated
// stream) stays readable.
package endpoint

import "errors"

// Direction is a bit set of open directions. A compression stream session
// opens with exactly one direction; endpoints may report both.
type Direction uint8

const (
	ReadOnly  Direction = 1 << iota // open for reading
	WriteOnly                       // open for writing
)

// CanRead reports whether the direction includes reading.
func (d Direction) CanRead() bool { return d&ReadOnly != 0 }

// CanWrite reports whether the direction includes writing.
func (d Direction) CanWrite() bool { return d&WriteOnly != 0 }

// Exclusive reports whether exactly one direction is set. Stream sessions
// require an exclusive direction; both or neither is a configuration error.
func (d Direction) Exclusive() bool {
	return d == ReadOnly || d == WriteOnly
}

func (d Direction) String() string {
	switch d {
	case ReadOnly:
		return "ReadOnly"
	case WriteOnly:
		return "WriteOnly"
	case ReadOnly | WriteOnly:
		return "ReadWrite"
	default:
		return "Unset"
	}
}

var (
	// ErrNotOpen is returned when reading from or writing to a closed endpoint.
	ErrNotOpen = errors.New("endpoint: not open")
	// ErrAlreadyOpen is returned by Open on an endpoint that is already open.
	ErrAlreadyOpen = errors.New("endpoint: already open")
	// ErrDirection is returned when an operation does not match the open direction.
	ErrDirection = errors.New("endpoint: operation does not match open direction")
	// ErrPushBackUnsupported is returned by endpoints that cannot un-consume bytes.
	ErrPushBackUnsupported = errors.New("endpoint: push-back not supported")
)

// Endpoint is a sequential byte source/sink. Read follows io.Reader
// semantics: it blocks until at least one byte is available and reports end
// of input with io.EOF. Write may perform short writes; callers retry until
// all bytes are delivered.
//
// Endpoints are not safe for concurrent use.
type Endpoint interface {
	// Open prepares the endpoint for the given direction.
	Open(dir Direction) error
	// Close releases the endpoint. Closing a closed endpoint is a no-op.
	Close() error
	// IsOpen reports whether the endpoint is open.
	IsOpen() bool
	// Directions returns the currently open directions, zero when closed.
	Directions() Direction
	// Read reads up to len(p) bytes into p.
	Read(p []byte) (int, error)
	// Write writes up to len(p) bytes from p.
	Write(p []byte) (int, error)
	// PushBack un-consumes one previously read byte; b becomes the next
	// byte returned by Read.
	PushBack(b byte) error
}

// BytesPushBacker is an optional Endpoint capability for returning several
// bytes at once. PushBackBytes(p) makes p the next bytes read, in order.
type BytesPushBacker interface {
	PushBackBytes(p []byte) error
}

// PushBackAll returns p to the front of ep so the next reads observe p in
// order. It uses the batch capability when the endpoint provides one and
// falls back to pushing single bytes in reverse order otherwise.
func PushBackAll(ep Endpoint, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if bp, ok := ep.(BytesPushBacker); ok {
		return bp.PushBackBytes(p)
	}
	for i := len(p) - 1; i >= 0; i-- {
		if err := ep.PushBack(p[i]); err != nil {
			return err
		}
	}

	return nil
}
