package endpoint

import (
	"github.com/cespare/xxhash/v2"
)

// Hashed wraps another Endpoint and folds every byte passing through it
// into an xxHash64 digest. It fingerprints the compressed byte stream of a
// session, e.g. to verify that a stored payload was not altered between a
// write and a later read.
//
// Push-back is rejected because un-consuming bytes would desynchronize the
// digest; Hashed therefore suits write sessions, or read sessions that are
// consumed to endpoint EOF (where no push-back occurs).
type Hashed struct {
	inner  Endpoint
	digest *xxhash.Digest
}

var _ Endpoint = (*Hashed)(nil)

// NewHashed wraps inner with a fresh xxHash64 digest.
func NewHashed(inner Endpoint) *Hashed {
	return &Hashed{
		inner:  inner,
		digest: xxhash.New(),
	}
}

func (h *Hashed) Open(dir Direction) error { return h.inner.Open(dir) }
func (h *Hashed) Close() error             { return h.inner.Close() }
func (h *Hashed) IsOpen() bool             { return h.inner.IsOpen() }
func (h *Hashed) Directions() Direction    { return h.inner.Directions() }

func (h *Hashed) Read(p []byte) (int, error) {
	n, err := h.inner.Read(p)
	if n > 0 {
		_, _ = h.digest.Write(p[:n]) // xxhash.Digest.Write never fails
	}

	return n, err
}

func (h *Hashed) Write(p []byte) (int, error) {
	n, err := h.inner.Write(p)
	if n > 0 {
		_, _ = h.digest.Write(p[:n])
	}

	return n, err
}

// PushBack always fails: returned bytes cannot be removed from the digest.
func (h *Hashed) PushBack(byte) error {
	return ErrPushBackUnsupported
}

// Sum64 returns the xxHash64 of all bytes read from or written to the
// endpoint so far.
func (h *Hashed) Sum64() uint64 { return h.digest.Sum64() }

// ResetDigest restarts the digest without touching the inner endpoint.
func (h *Hashed) ResetDigest() { h.digest.Reset() }
