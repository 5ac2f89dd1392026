//go:build zstd_cgo && !nozstd

package streams

import (
	"errors"
	"io"

	"github.com/valyala/gozstd"

	"github.com/droidmonkey/keepassx-new/endpoint"
)

const zstdSupported = true

// zstdBackend wraps libzstd through cgo (ZSTD_compressStream2 /
// ZSTD_decompressStream). Selected by the zstd_cgo build tag for
// deployments that link the C library; the default build uses the pure Go
// implementation in zstd_pure.go.
//
// The cgo reader refills its native input buffer in large chunks, so at end
// of stream only the bytes still staged in the core feed can be pushed back
// to the endpoint; bytes already inside the native buffer are consumed with
// the frame.
type zstdBackend struct {
	core  *core
	level int

	dec *gozstd.Reader // created on first read
	enc *gozstd.Writer
}

var _ backend = (*zstdBackend)(nil)

func newZstdBackend(core *core, level int) backend {
	return &zstdBackend{core: core, level: level}
}

func (z *zstdBackend) initialize(dir endpoint.Direction) error {
	if dir.CanRead() {
		z.core.acquire(zstdChunkSize)
		z.core.st = stateAwaitingFirstByte

		return nil
	}

	z.enc = gozstd.NewWriterLevel(z.core, z.level)
	z.core.st = stateNoBytesWritten

	return nil
}

func (z *zstdBackend) read(p []byte) (int, error) {
	if z.dec == nil {
		ok, err := z.core.primeInput()
		if err != nil {
			return 0, err
		}
		if !ok {
			z.core.st = stateEndOfStream
			return 0, nil
		}
		z.dec = gozstd.NewReader(z.core)
	}

	total := 0
	for total < len(p) {
		n, err := z.dec.Read(p[total:])
		total += n
		if errors.Is(err, io.EOF) {
			z.core.st = stateEndOfStream
			if perr := z.core.pushBackRemainder(); perr != nil {
				return total, perr
			}

			return total, io.EOF
		}
		if err != nil {
			return total, z.core.classifyDecodeErr(err, "zstd")
		}
	}

	return total, nil
}

func (z *zstdBackend) write(p []byte) (int, error) {
	n, err := z.enc.Write(p)
	if err != nil {
		return n, z.core.classifyEncodeErr(err, "zstd")
	}

	return n, nil
}

func (z *zstdBackend) flush() error {
	if err := z.enc.Flush(); err != nil {
		return z.core.classifyEncodeErr(err, "zstd")
	}

	return nil
}

func (z *zstdBackend) finalize(dir endpoint.Direction) error {
	if dir.CanRead() {
		if z.dec != nil {
			z.dec.Release()
			z.dec = nil
		}

		return nil
	}

	if z.enc == nil {
		return nil
	}
	var err error
	if z.core.st == stateBytesWritten {
		if cerr := z.enc.Close(); cerr != nil {
			err = z.core.classifyEncodeErr(cerr, "zstd")
		}
	}
	z.enc.Release()
	z.enc = nil

	return err
}
