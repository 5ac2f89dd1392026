package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScratchPool_GetExactLength(t *testing.T) {
	sp := NewScratchPool(1024, 4096)

	buf := sp.Get(512)
	require.Len(t, buf, 512)
	sp.Put(buf)

	buf = sp.Get(1024)
	require.Len(t, buf, 1024)
	sp.Put(buf)
}

func TestScratchPool_GrowsBeyondDefault(t *testing.T) {
	sp := NewScratchPool(64, 0)

	buf := sp.Get(4096)
	require.Len(t, buf, 4096)
	require.GreaterOrEqual(t, cap(buf), 4096)
}

func TestScratchPool_DiscardsOversized(t *testing.T) {
	sp := NewScratchPool(64, 128)

	big := make([]byte, 1024)
	sp.Put(big) // above threshold, must not be retained

	buf := sp.Get(64)
	require.Len(t, buf, 64)
	require.LessOrEqual(t, cap(buf), 128)
}

func TestScratchPool_PutNil(t *testing.T) {
	sp := NewScratchPool(64, 128)
	require.NotPanics(t, func() { sp.Put(nil) })
}

func TestDefaultPool(t *testing.T) {
	buf := GetScratch(ScratchDefaultSize)
	require.Len(t, buf, ScratchDefaultSize)
	PutScratch(buf)

	// Oversized leases still come back with the requested length.
	buf = GetScratch(2 * ScratchMaxThreshold)
	require.Len(t, buf, 2*ScratchMaxThreshold)
	PutScratch(buf)
}
