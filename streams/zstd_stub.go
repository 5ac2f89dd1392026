//go:build nozstd

package streams

import "github.com/droidmonkey/keepassx-new/format"

// Builds tagged nozstd ship no Zstandard codec at all. Selecting
// format.CodecZstd then resolves to the stub backend, which fails every
// operation with a descriptive error instead of crashing.
const zstdSupported = false

// newZstdBackend is never reached when zstdSupported is false; the
// dispatcher hands out the stub backend first. It exists so the call site
// compiles identically across build configurations.
func newZstdBackend(core *core, level int) backend {
	_ = core
	_ = level

	return newStubBackend(format.CodecZstd)
}
