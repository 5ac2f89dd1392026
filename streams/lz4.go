package streams

import (
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/droidmonkey/keepassx-new/endpoint"
)

// lz4Levels maps the adapter's 0-9 level range onto the LZ4 implementation's
// compression levels. 0 is the fast mode; 1-9 enable increasingly thorough
// match searching.
var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1,
	lz4.Level2,
	lz4.Level3,
	lz4.Level4,
	lz4.Level5,
	lz4.Level6,
	lz4.Level7,
	lz4.Level8,
	lz4.Level9,
}

// lz4Backend wraps the LZ4 frame format, the second frame-streaming codec
// next to Zstandard. Always part of the build.
type lz4Backend struct {
	core  *core
	level int

	dec *lz4.Reader // created on first read
	enc *lz4.Writer
}

var _ backend = (*lz4Backend)(nil)

func newLZ4Backend(core *core, level int) *lz4Backend {
	return &lz4Backend{core: core, level: level}
}

func (l *lz4Backend) initialize(dir endpoint.Direction) error {
	if dir.CanRead() {
		l.core.acquire(lz4ChunkSize)
		l.core.st = stateAwaitingFirstByte

		return nil
	}

	enc := lz4.NewWriter(l.core)
	if err := enc.Apply(
		lz4.CompressionLevelOption(lz4Levels[l.level]),
		lz4.ConcurrencyOption(1),
	); err != nil {
		return fmt.Errorf("initializing lz4 encoder: %w", err)
	}
	l.enc = enc
	l.core.st = stateNoBytesWritten

	return nil
}

func (l *lz4Backend) read(p []byte) (int, error) {
	if l.dec == nil {
		ok, err := l.core.primeInput()
		if err != nil {
			return 0, err
		}
		if !ok {
			l.core.st = stateEndOfStream
			return 0, nil
		}
		l.dec = lz4.NewReader(l.core)
	}

	total := 0
	for total < len(p) {
		n, err := l.dec.Read(p[total:])
		total += n
		if errors.Is(err, io.EOF) {
			l.core.st = stateEndOfStream
			if perr := l.core.pushBackRemainder(); perr != nil {
				return total, perr
			}

			return total, io.EOF
		}
		if err != nil {
			return total, l.core.classifyDecodeErr(err, "lz4")
		}
	}

	return total, nil
}

func (l *lz4Backend) write(p []byte) (int, error) {
	n, err := l.enc.Write(p)
	if err != nil {
		return n, l.core.classifyEncodeErr(err, "lz4")
	}

	return n, nil
}

func (l *lz4Backend) flush() error {
	if err := l.enc.Flush(); err != nil {
		return l.core.classifyEncodeErr(err, "lz4")
	}

	return nil
}

func (l *lz4Backend) finalize(dir endpoint.Direction) error {
	if dir.CanRead() {
		l.dec = nil
		return nil
	}

	if l.enc == nil {
		return nil
	}
	var err error
	if l.core.st == stateBytesWritten {
		if cerr := l.enc.Close(); cerr != nil {
			err = l.core.classifyEncodeErr(cerr, "lz4")
		}
	}
	l.enc = nil

	return err
}
