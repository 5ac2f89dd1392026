package streams

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/droidmonkey/keepassx-new/endpoint"
	"github.com/droidmonkey/keepassx-new/format"
)

// deflateWriter is the common face of the flate, zlib and gzip encoders:
// sync flush plus a finishing Close that terminates the stream.
type deflateWriter interface {
	io.WriteCloser
	Flush() error
}

// deflateBackend wraps the DEFLATE family. The container format selects the
// header/trailer framing: none (raw), zlib header+checksum, or gzip
// header+trailer.
type deflateBackend struct {
	core      *core
	container format.ContainerFormat
	level     int

	dec io.ReadCloser // created on first read; header parsing needs input
	enc deflateWriter
}

var _ backend = (*deflateBackend)(nil)

func newDeflateBackend(core *core, container format.ContainerFormat, level int) *deflateBackend {
	return &deflateBackend{core: core, container: container, level: level}
}

func (d *deflateBackend) initialize(dir endpoint.Direction) error {
	if dir.CanRead() {
		// The decoder itself is constructed lazily: zlib and gzip readers
		// parse their header eagerly, and an empty source must yield a clean
		// zero-byte read instead of a header error.
		d.core.acquire(0)
		d.core.st = stateAwaitingFirstByte

		return nil
	}

	enc, err := d.newEncoder()
	if err != nil {
		return fmt.Errorf("initializing %s deflate encoder: %w", d.container, err)
	}
	d.enc = enc
	d.core.st = stateNoBytesWritten

	return nil
}

func (d *deflateBackend) newEncoder() (deflateWriter, error) {
	switch d.container {
	case format.ContainerGzip:
		return gzip.NewWriterLevel(d.core, d.level)
	case format.ContainerRaw:
		return flate.NewWriter(d.core, d.level)
	default:
		return zlib.NewWriterLevel(d.core, d.level)
	}
}

// newDecoder builds the container-appropriate reader over the core feed.
// The core implements io.ByteReader, so the decoders consume exactly the
// bytes belonging to the stream — nothing is buffered past the trailer.
func (d *deflateBackend) newDecoder() (io.ReadCloser, error) {
	switch d.container {
	case format.ContainerGzip:
		zr, err := gzip.NewReader(d.core)
		if err != nil {
			return nil, err
		}
		// One session decodes one stream: stop at the first gzip trailer
		// instead of probing for a concatenated member, so the unread tail
		// can be pushed back intact.
		zr.Multistream(false)

		return zr, nil
	case format.ContainerRaw:
		return flate.NewReader(d.core), nil
	default:
		return zlib.NewReader(d.core)
	}
}

func (d *deflateBackend) read(p []byte) (int, error) {
	if d.dec == nil {
		ok, err := d.core.primeInput()
		if err != nil {
			return 0, err
		}
		if !ok {
			// End of input before any stream byte: an empty source, not an
			// error. The session still ends here, otherwise standard read
			// loops would spin on (0, nil) forever.
			d.core.st = stateEndOfStream

			return 0, nil
		}
		dec, err := d.newDecoder()
		if err != nil {
			return 0, d.core.classifyDecodeErr(err, d.container.String())
		}
		d.dec = dec
	}

	total := 0
	for total < len(p) {
		n, err := d.dec.Read(p[total:])
		total += n
		if errors.Is(err, io.EOF) {
			d.core.st = stateEndOfStream
			if perr := d.core.pushBackRemainder(); perr != nil {
				return total, perr
			}

			return total, io.EOF
		}
		if err != nil {
			return total, d.core.classifyDecodeErr(err, d.container.String())
		}
	}

	return total, nil
}

func (d *deflateBackend) write(p []byte) (int, error) {
	n, err := d.enc.Write(p)
	if err != nil {
		return n, d.core.classifyEncodeErr(err, d.container.String())
	}

	return n, nil
}

func (d *deflateBackend) flush() error {
	if err := d.enc.Flush(); err != nil {
		return d.core.classifyEncodeErr(err, d.container.String())
	}

	return nil
}

func (d *deflateBackend) finalize(dir endpoint.Direction) error {
	if dir.CanRead() {
		if d.dec != nil {
			_ = d.dec.Close() // decode teardown, nothing pending
			d.dec = nil
		}

		return nil
	}

	if d.enc == nil {
		return nil
	}
	var err error
	if d.core.st == stateBytesWritten {
		// Finish mode: drains the codec until it reports stream end, so
		// every logically written byte reaches the endpoint.
		if cerr := d.enc.Close(); cerr != nil {
			err = d.core.classifyEncodeErr(cerr, d.container.String())
		}
	}
	d.enc = nil

	return err
}
