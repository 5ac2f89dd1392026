package streams

import (
	"errors"
	"fmt"
	"io"

	"github.com/droidmonkey/keepassx-new/endpoint"
	"github.com/droidmonkey/keepassx-new/internal/pool"
)

// sessionState tracks the lifecycle of one open session. Read states and
// write states share the enumeration but are mutually exclusive: the open
// direction decides which half applies.
type sessionState uint8

const (
	stateClosed sessionState = iota
	// Read states.
	stateAwaitingFirstByte
	stateInStream
	stateEndOfStream
	// Write states.
	stateNoBytesWritten
	stateBytesWritten
	// Common.
	stateError
)

func (s sessionState) String() string {
	switch s {
	case stateClosed:
		return "Closed"
	case stateAwaitingFirstByte:
		return "AwaitingFirstByte"
	case stateInStream:
		return "InStream"
	case stateEndOfStream:
		return "EndOfStream"
	case stateNoBytesWritten:
		return "NoBytesWritten"
	case stateBytesWritten:
		return "BytesWritten"
	case stateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// backend is the minimal contract every codec variant satisfies. Exactly one
// backend instance exists per open session; the Compressor owns it from
// initialize to finalize.
type backend interface {
	// initialize allocates codec state for the given direction. On failure
	// nothing is left dangling: a failed initialize needs no finalize.
	initialize(dir endpoint.Direction) error
	// read decompresses into p until p is full or the stream ends. At
	// stream end it returns io.EOF (possibly with a final byte count) after
	// pushing unconsumed raw bytes back to the endpoint.
	read(p []byte) (int, error)
	// write compresses all of p, staging output through the endpoint.
	write(p []byte) (int, error)
	// flush forces a codec sync point: all compressed bytes produced so far
	// reach the endpoint without ending the logical stream.
	flush() error
	// finalize tears down codec state. In write direction it first drives
	// the codec's finish mode until the stream is fully drained, provided
	// any bytes were written.
	finalize(dir endpoint.Direction) error
}

// core carries the per-session plumbing shared by every backend: the
// endpoint, the scratch buffer staging raw bytes between codec and endpoint,
// and the lifecycle state.
//
// In read direction core acts as the codec's input feed: it implements
// io.Reader and io.ByteReader over the scratch buffer, refilling from the
// endpoint on demand. Providing ReadByte matters — the DEFLATE-family
// decoders consume their source byte-exactly when it implements
// io.ByteReader, which is what makes end-of-stream push-back precise.
//
// In write direction core acts as the codec's output sink: its Write
// retries short endpoint writes until everything staged is delivered.
type core struct {
	ep       endpoint.Endpoint
	sizeHint int
	scratch  []byte
	in       []byte // unconsumed tail of scratch
	st       sessionState
	devErr   error // sticky endpoint failure, distinguishes I/O from codec errors
}

// acquire leases the session's scratch buffer. Backends pass their own
// minimum chunk size; the larger of it and the caller's hint wins.
func (c *core) acquire(minSize int) {
	size := c.sizeHint
	if size < minSize {
		size = minSize
	}
	c.scratch = pool.GetScratch(size)
	c.in = nil
}

// release returns the scratch buffer to the pool. Safe to call repeatedly
// and on cores that never acquired one.
func (c *core) release() {
	if c.scratch != nil {
		pool.PutScratch(c.scratch)
		c.scratch = nil
	}
	c.in = nil
}

// fill pulls up to one scratch buffer of raw bytes from the endpoint.
// It returns io.EOF when the endpoint has nothing left, and records
// endpoint failures in devErr so callers can tell them apart from codec
// errors surfacing through a decoder.
func (c *core) fill() error {
	n, err := c.ep.Read(c.scratch)
	if n > 0 {
		c.in = c.scratch[:n]
		if c.st == stateAwaitingFirstByte {
			c.st = stateInStream
		}

		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return io.EOF
	}

	ferr := fmt.Errorf("reading from underlying endpoint: %w", err)
	c.devErr = ferr

	return ferr
}

// primeInput makes sure at least one raw byte is buffered before a decoder
// is constructed or invoked. It reports ok=false on a clean end of input,
// which before the first stream byte means a genuinely empty source.
func (c *core) primeInput() (ok bool, err error) {
	if len(c.in) > 0 {
		return true, nil
	}
	err = c.fill()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, io.EOF) {
		return false, nil
	}

	return false, err
}

// Read hands buffered raw bytes to the decoder, refilling from the endpoint
// when the buffer runs dry.
func (c *core) Read(p []byte) (int, error) {
	if len(c.in) == 0 {
		if err := c.fill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, c.in)
	c.in = c.in[n:]

	return n, nil
}

// ReadByte hands the decoder exactly one raw byte.
func (c *core) ReadByte() (byte, error) {
	if len(c.in) == 0 {
		if err := c.fill(); err != nil {
			return 0, err
		}
	}
	b := c.in[0]
	c.in = c.in[1:]

	return b, nil
}

// Write delivers compressed output to the endpoint, retrying until every
// byte is written. The BytesWritten transition happens at the caller-facing
// write, not here: the codec writers buffer internally, so a session can
// hold logical bytes long before any reach the endpoint.
func (c *core) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := c.ep.Write(p[written:])
		if err != nil {
			ferr := fmt.Errorf("writing to underlying endpoint: %w", err)
			c.devErr = ferr

			return written, ferr
		}
		if n <= 0 {
			ferr := fmt.Errorf("writing to underlying endpoint: %w", io.ErrShortWrite)
			c.devErr = ferr

			return written, ferr
		}
		written += n
	}

	return len(p), nil
}

// pushBackRemainder returns every raw byte pulled from the endpoint but not
// consumed by the decoder, leaving the endpoint positioned exactly after the
// logical stream's trailer. Batched when the endpoint supports it.
func (c *core) pushBackRemainder() error {
	if len(c.in) == 0 {
		return nil
	}
	if err := endpoint.PushBackAll(c.ep, c.in); err != nil {
		return fmt.Errorf("returning unconsumed bytes to endpoint: %w", err)
	}
	c.in = nil

	return nil
}

// classifyDecodeErr separates endpoint I/O failures (recorded by fill) from
// genuine codec errors bubbling out of a decoder.
func (c *core) classifyDecodeErr(err error, codec string) error {
	if c.devErr != nil {
		return c.devErr
	}

	return fmt.Errorf("%s decompression failed: %w", codec, err)
}

// classifyEncodeErr is the write-direction counterpart of classifyDecodeErr.
func (c *core) classifyEncodeErr(err error, codec string) error {
	if c.devErr != nil {
		return c.devErr
	}

	return fmt.Errorf("%s compression failed: %w", codec, err)
}
