//go:build !zstd_cgo && !nozstd

package streams

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/droidmonkey/keepassx-new/endpoint"
)

const zstdSupported = true

// zstdBackend wraps the pure Go Zstandard implementation. The zstd frame
// format carries its own header, checksum and end mark, so there is no
// container format to choose.
//
// Decoding runs single-threaded so that input consumption stays
// deterministic: the decoder pulls frame data from the core feed
// block-exactly, and raw bytes it never pulled are pushed back to the
// endpoint at end of stream.
type zstdBackend struct {
	core  *core
	level int

	dec *zstd.Decoder // created on first read
	enc *zstd.Encoder
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

	enc, err := zstd.NewWriter(z.core,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(z.level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return fmt.Errorf("initializing zstd encoder: %w", err)
	}
	z.enc = enc
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
		dec, err := zstd.NewReader(z.core,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			return 0, z.core.classifyDecodeErr(err, "zstd")
		}
		z.dec = dec
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
			z.dec.Close()
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
	z.enc = nil

	return err
}
