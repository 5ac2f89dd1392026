package pool

import "sync"

// Scratch buffer sizing. Each open stream session leases exactly one scratch
// buffer which stages raw bytes between the codec and the endpoint.
const (
	// ScratchDefaultSize is the default scratch buffer capacity, matching the
	// adapter's default buffer-size hint.
	ScratchDefaultSize = 64 * 1024 // 64KiB
	// ScratchMaxThreshold is the largest buffer the pool retains. Buffers
	// grown beyond it (large caller hints, codec chunk-size floors) are left
	// to the garbage collector rather than pinned in the pool.
	ScratchMaxThreshold = 1024 * 1024 // 1MiB
)

// ScratchPool is a pool of fixed-length scratch buffers used to minimize
// allocations across stream sessions.
//
// It uses sync.Pool internally. A maximum size threshold avoids retaining
// overly large buffers that could lead to memory bloat.
type ScratchPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewScratchPool creates a ScratchPool whose fresh buffers have the given
// default capacity. maxThreshold caps the capacity of retained buffers;
// zero disables the cap.
func NewScratchPool(defaultSize int, maxThreshold int) *ScratchPool {
	return &ScratchPool{
		pool: sync.Pool{
			New: func() any {
				buf := make([]byte, 0, defaultSize)
				return &buf
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get leases a scratch buffer with length exactly size. If the pooled buffer
// is too small a new one is allocated in its place.
func (sp *ScratchPool) Get(size int) []byte {
	ptr, _ := sp.pool.Get().(*[]byte)
	buf := *ptr
	if cap(buf) < size {
		return make([]byte, size)
	}

	return buf[:size]
}

// Put returns a scratch buffer to the pool for reuse. Buffers larger than
// the pool's threshold are discarded.
func (sp *ScratchPool) Put(buf []byte) {
	if buf == nil {
		return
	}
	if sp.maxThreshold > 0 && cap(buf) > sp.maxThreshold {
		// Discard overly large buffers to prevent memory bloat.
		return
	}

	buf = buf[:0]
	sp.pool.Put(&buf)
}

var scratchDefaultPool = NewScratchPool(ScratchDefaultSize, ScratchMaxThreshold)

// GetScratch leases a scratch buffer from the default pool.
func GetScratch(size int) []byte {
	return scratchDefaultPool.Get(size)
}

// PutScratch returns a scratch buffer to the default pool.
func PutScratch(buf []byte) {
	scratchDefaultPool.Put(buf)
}
