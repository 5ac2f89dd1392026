package streams

import (
	"errors"
	"fmt"
	"io"

	"github.com/droidmonkey/keepassx-new/endpoint"
	"github.com/droidmonkey/keepassx-new/format"
	"github.com/droidmonkey/keepassx-new/internal/options"
	"github.com/droidmonkey/keepassx-new/internal/pool"
)

var (
	// ErrNotOpen is returned by operations on a closed compressor.
	ErrNotOpen = errors.New("streams: compressor is not open")
	// ErrAlreadyOpen is returned by Open on an open compressor.
	ErrAlreadyOpen = errors.New("streams: compressor is already open")
	// ErrInvalidDirection is returned when Open is called with both or
	// neither direction, or an operation does not match the open direction.
	ErrInvalidDirection = errors.New("streams: compressor supports exactly one of ReadOnly or WriteOnly")
	// ErrUnknownCodec rejects codec selections outside the supported set.
	ErrUnknownCodec = errors.New("streams: unknown codec")
	// ErrUnknownContainer rejects container formats outside the supported set.
	ErrUnknownContainer = errors.New("streams: unknown container format")
	// ErrInvalidLevel rejects compression levels outside the codec's range.
	ErrInvalidLevel = errors.New("streams: compression level out of range")
	// ErrUnsupportedCodec is returned when the selected codec is not
	// compiled into this build.
	ErrUnsupportedCodec = errors.New("streams: codec not supported in this build")
)

// Compressor is a sequential byte stream that compresses data written to it
// before the data reaches an underlying endpoint, and decompresses data read
// through it as the raw bytes arrive. One Compressor drives one endpoint,
// strictly sequentially, in a single direction per open session.
//
// A Compressor is not safe for concurrent use. Callers needing concurrency
// use separate Compressor instances over separate endpoints.
type Compressor struct {
	ep         endpoint.Endpoint
	spec       format.Spec
	bufferSize int
	levelSet   bool

	// Per-session state, nil/zero while closed.
	dir            endpoint.Direction
	core           *core
	bk             backend
	manageEndpoint bool
	lastErr        error
}

// Option configures a Compressor at construction time.
type Option = options.Option[*Compressor]

// WithCodec selects the compression codec. The default is the DEFLATE
// backend with zlib framing.
func WithCodec(codec format.CodecType) Option {
	return options.New(func(c *Compressor) error {
		switch codec {
		case format.CodecDeflate, format.CodecZstd, format.CodecLZ4:
			c.spec.Codec = codec
			return nil
		default:
			return fmt.Errorf("%w: %s", ErrUnknownCodec, codec)
		}
	})
}

// WithContainerFormat selects the header/trailer framing of the DEFLATE
// backend: zlib (smallest overhead, default), gzip (gzip file compatible) or
// raw (no framing). Frame-streaming codecs carry their own framing and
// ignore this option.
func WithContainerFormat(container format.ContainerFormat) Option {
	return options.New(func(c *Compressor) error {
		switch container {
		case format.ContainerZlib, format.ContainerGzip, format.ContainerRaw:
			c.spec.Container = container
			return nil
		default:
			return fmt.Errorf("%w: %s", ErrUnknownContainer, container)
		}
	})
}

// WithLevel sets the compression level. Valid ranges are codec-specific
// (0-9 for DEFLATE, 1-22 for Zstd, 0-9 for LZ4) and validated against the
// selected codec when the Compressor is constructed.
func WithLevel(level int) Option {
	return options.NoError(func(c *Compressor) {
		c.spec.Level = level
		c.levelSet = true
	})
}

// WithBufferSize hints the scratch buffer capacity used to stage bytes
// between the codec and the endpoint. The default is 64KiB; backends raise
// the size to their own minimum chunk size when the hint is smaller. Larger
// buffers trade memory for fewer endpoint calls.
func WithBufferSize(size int) Option {
	return options.New(func(c *Compressor) error {
		if size < 1 {
			return fmt.Errorf("streams: buffer size hint must be positive, got %d", size)
		}
		c.bufferSize = size

		return nil
	})
}

// NewCompressor creates a Compressor over the given endpoint. The codec,
// container format, level and buffer size are fixed here; Open starts a
// session in one direction.
func NewCompressor(ep endpoint.Endpoint, opts ...Option) (*Compressor, error) {
	c := &Compressor{
		ep: ep,
		spec: format.Spec{
			Codec:     format.CodecDeflate,
			Container: format.ContainerZlib,
		},
		bufferSize: pool.ScratchDefaultSize,
	}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}
	if !c.levelSet {
		c.spec.Level = c.spec.Codec.DefaultLevel()
	}
	if !c.spec.Codec.ValidLevel(c.spec.Level) {
		minLevel, maxLevel := c.spec.Codec.LevelBounds()
		return nil, fmt.Errorf("%w: %s accepts %d..%d, got %d",
			ErrInvalidLevel, c.spec.Codec, minLevel, maxLevel, c.spec.Level)
	}

	return c, nil
}

// Spec returns the immutable stream configuration.
func (c *Compressor) Spec() format.Spec { return c.spec }

// IsOpen reports whether a session is active.
func (c *Compressor) IsOpen() bool { return c.bk != nil }

// IsSequential always reports true: compressed streams support no seeking.
func (c *Compressor) IsSequential() bool { return true }

// Open starts a session in the given direction, which is fixed until Close.
// Exactly one of endpoint.ReadOnly or endpoint.WriteOnly must be set.
//
// A closed endpoint is opened here and will be closed again by Close; an
// endpoint that is already open is only validated for direction
// compatibility and left under the caller's management.
func (c *Compressor) Open(dir endpoint.Direction) error {
	if c.bk != nil {
		return ErrAlreadyOpen
	}
	if !dir.Exclusive() {
		return c.record(fmt.Errorf("%w: got %s", ErrInvalidDirection, dir))
	}

	manage := false
	if c.ep.IsOpen() {
		open := c.ep.Directions()
		if (dir.CanRead() && !open.CanRead()) || (dir.CanWrite() && !open.CanWrite()) {
			return c.record(fmt.Errorf("streams: endpoint is open %s, need %s", open, dir))
		}
	} else {
		if err := c.ep.Open(dir); err != nil {
			return c.record(fmt.Errorf("opening underlying endpoint: %w", err))
		}
		manage = true
	}

	core := &core{ep: c.ep, sizeHint: c.bufferSize}
	bk := c.newBackend(core)
	if err := bk.initialize(dir); err != nil {
		core.release()
		if manage {
			_ = c.ep.Close()
		}

		return c.record(err)
	}

	c.dir = dir
	c.core = core
	c.bk = bk
	c.manageEndpoint = manage
	c.lastErr = nil

	return nil
}

// newBackend instantiates the codec variant selected at construction.
// Codecs absent from this build come back as the stub backend, so callers
// get a clean initialize failure instead of a crash.
func (c *Compressor) newBackend(core *core) backend {
	switch c.spec.Codec {
	case format.CodecDeflate:
		return newDeflateBackend(core, c.spec.Container, c.spec.Level)
	case format.CodecZstd:
		if !zstdSupported {
			return newStubBackend(format.CodecZstd)
		}
		return newZstdBackend(core, c.spec.Level)
	case format.CodecLZ4:
		return newLZ4Backend(core, c.spec.Level)
	default:
		return newStubBackend(c.spec.Codec)
	}
}

// Close finalizes the session: in write direction the codec's finish mode is
// driven until every pending compressed byte has reached the endpoint. The
// endpoint itself is closed only if Open opened it. Close is idempotent; on
// an already-closed Compressor it is a no-op.
//
// A finalize failure is returned, but teardown continues regardless: the
// scratch buffer is released and a managed endpoint is still closed.
func (c *Compressor) Close() error {
	if c.bk == nil {
		return nil
	}

	err := c.bk.finalize(c.dir)
	c.core.release()
	if c.manageEndpoint {
		if cerr := c.ep.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing underlying endpoint: %w", cerr)
		}
	}

	c.bk = nil
	c.core = nil
	c.dir = 0
	c.manageEndpoint = false
	if err != nil {
		c.lastErr = err
	}

	return err
}

// Read decompresses up to len(p) bytes into p. It returns io.EOF once the
// logical stream has ended; at that point any raw bytes pulled from the
// endpoint beyond the stream's trailer have been pushed back, so a
// subsequent reader of the endpoint starts exactly where this stream ended.
//
// A source with no bytes at all yields (0, nil) and no error on the first
// call and io.EOF afterwards, so standard read loops terminate. After a
// fatal error every Read fails with the recorded error until Close and a
// fresh Open.
func (c *Compressor) Read(p []byte) (int, error) {
	if c.bk == nil {
		return 0, ErrNotOpen
	}
	if !c.dir.CanRead() {
		return 0, fmt.Errorf("%w: read on a %s session", ErrInvalidDirection, c.dir)
	}
	switch c.core.st {
	case stateEndOfStream:
		return 0, io.EOF
	case stateError:
		return 0, c.lastErr
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := c.bk.read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, c.fail(err)
	}

	return n, err
}

// Write compresses all of p and stages the output toward the endpoint.
// Writing an empty slice is a no-op: the endpoint sees no call. A fatal
// codec or endpoint failure is sticky until Close and a fresh Open.
func (c *Compressor) Write(p []byte) (int, error) {
	if c.bk == nil {
		return 0, ErrNotOpen
	}
	if !c.dir.CanWrite() {
		return 0, fmt.Errorf("%w: write on a %s session", ErrInvalidDirection, c.dir)
	}
	if c.core.st == stateError {
		return 0, c.lastErr
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := c.bk.write(p)
	if err != nil {
		return n, c.fail(err)
	}
	// The session now holds logical bytes even if the codec has not spilled
	// any compressed output to the endpoint yet; finalize must drain the
	// encoder on Close.
	c.core.st = stateBytesWritten

	return n, nil
}

// Flush forces a codec sync point: every compressed byte produced so far is
// delivered to the endpoint without ending the logical stream, so writing
// may continue afterwards. Frequent flushing costs compression ratio — each
// sync point resets the codec's ability to reference pending data.
//
// Flush is valid only on an open write session.
func (c *Compressor) Flush() error {
	if c.bk == nil {
		return ErrNotOpen
	}
	if !c.dir.CanWrite() {
		return fmt.Errorf("%w: flush on a %s session", ErrInvalidDirection, c.dir)
	}
	if c.core.st == stateError {
		return c.lastErr
	}

	if err := c.bk.flush(); err != nil {
		return c.fail(err)
	}

	return nil
}

// BytesAvailable is a heuristic: 1 while the stream may still produce bytes,
// 0 once the end of the stream or an error has been reached. It is never a
// byte count — compressed and decompressed sizes are decoupled, and the
// remaining raw bytes may be nothing but the stream trailer.
func (c *Compressor) BytesAvailable() int {
	if c.bk == nil || !c.dir.CanRead() {
		return 0
	}
	switch c.core.st {
	case stateAwaitingFirstByte, stateInStream:
		return 1
	default:
		return 0
	}
}

// Err returns the last recorded error, or nil.
func (c *Compressor) Err() error { return c.lastErr }

// ErrorDescription returns a human-readable description of the last
// recorded error, or the empty string.
func (c *Compressor) ErrorDescription() string {
	if c.lastErr == nil {
		return ""
	}

	return c.lastErr.Error()
}

// fail records a fatal session error: the state machine moves to Error and
// every read/write/flush fails until Close and a fresh Open.
func (c *Compressor) fail(err error) error {
	c.lastErr = err
	if c.core != nil {
		c.core.st = stateError
	}

	return err
}

// record keeps an error reachable through ErrorDescription without touching
// session state; used for failures that leave the compressor closed.
func (c *Compressor) record(err error) error {
	c.lastErr = err
	return err
}
