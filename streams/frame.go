package streams

import (
	"fmt"

	"github.com/droidmonkey/keepassx-new/endpoint"
	"github.com/droidmonkey/keepassx-new/format"
)

// Recommended streaming chunk sizes for the frame codecs. A caller buffer
// hint below the codec's floor is raised to it on initialize.
const (
	// zstdChunkSize matches the reference implementation's recommended
	// streaming input/output size (one maximum block plus headroom).
	zstdChunkSize = 128 * 1024
	// lz4ChunkSize is the smallest LZ4 frame block size.
	lz4ChunkSize = 64 * 1024
)

// CodecAvailable reports whether the codec is compiled into this build.
// The DEFLATE and LZ4 backends are always present; Zstd may be excluded
// with the nozstd build tag, in which case selecting it yields a backend
// that fails cleanly on every operation.
func CodecAvailable(codec format.CodecType) bool {
	switch codec {
	case format.CodecDeflate, format.CodecLZ4:
		return true
	case format.CodecZstd:
		return zstdSupported
	default:
		return false
	}
}

// stubBackend stands in for a codec that is not part of this build. It
// keeps the public contract identical regardless of build configuration:
// Open fails with a descriptive error, and no operation crashes or
// silently corrupts data.
type stubBackend struct {
	codec format.CodecType
}

var _ backend = (*stubBackend)(nil)

func newStubBackend(codec format.CodecType) *stubBackend {
	return &stubBackend{codec: codec}
}

func (s *stubBackend) initialize(endpoint.Direction) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedCodec, s.codec)
}

func (s *stubBackend) read([]byte) (int, error) {
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedCodec, s.codec)
}

func (s *stubBackend) write([]byte) (int, error) {
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedCodec, s.codec)
}

func (s *stubBackend) flush() error {
	return fmt.Errorf("%w: %s", ErrUnsupportedCodec, s.codec)
}

func (s *stubBackend) finalize(endpoint.Direction) error {
	return nil
}
