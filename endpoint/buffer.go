package endpoint

import "io"

// Buffer is an in-memory Endpoint. In write direction it accumulates bytes;
// in read direction it serves a byte slice with full push-back support.
//
// The zero value is a closed, empty buffer ready for a write session.
// Contents survive Close, so the output of a compression session remains
// available through Bytes, and the same Buffer can be reopened for reading.
type Buffer struct {
	data   []byte
	pos    int
	unread []byte // push-back stack; the last element is the next byte read
	dir    Direction
	open   bool
}

var _ Endpoint = (*Buffer)(nil)
var _ BytesPushBacker = (*Buffer)(nil)

// NewBuffer creates an empty in-memory endpoint, typically the sink of a
// write session.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferBytes creates an in-memory endpoint serving data, typically the
// source of a read session. The buffer does not copy data.
func NewBufferBytes(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Open prepares the buffer for dir. Buffers accept any direction.
func (b *Buffer) Open(dir Direction) error {
	if b.open {
		return ErrAlreadyOpen
	}
	if dir&(ReadOnly|WriteOnly) == 0 {
		return ErrDirection
	}
	b.dir = dir
	b.open = true

	return nil
}

// Close marks the buffer closed. The accumulated contents are retained.
func (b *Buffer) Close() error {
	b.open = false
	b.dir = 0

	return nil
}

func (b *Buffer) IsOpen() bool { return b.open }

func (b *Buffer) Directions() Direction {
	if !b.open {
		return 0
	}

	return b.dir
}

// Read serves pushed-back bytes first, then the remaining contents.
// It returns io.EOF once everything has been consumed.
func (b *Buffer) Read(p []byte) (int, error) {
	if !b.open {
		return 0, ErrNotOpen
	}
	if !b.dir.CanRead() {
		return 0, ErrDirection
	}
	if len(p) == 0 {
		return 0, nil
	}

	if n := len(b.unread); n > 0 {
		count := min(n, len(p))
		for i := 0; i < count; i++ {
			p[i] = b.unread[n-1-i]
		}
		b.unread = b.unread[:n-count]

		return count, nil
	}

	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	count := copy(p, b.data[b.pos:])
	b.pos += count

	return count, nil
}

// Write appends p to the buffer contents.
func (b *Buffer) Write(p []byte) (int, error) {
	if !b.open {
		return 0, ErrNotOpen
	}
	if !b.dir.CanWrite() {
		return 0, ErrDirection
	}
	b.data = append(b.data, p...)

	return len(p), nil
}

// PushBack makes c the next byte returned by Read.
func (b *Buffer) PushBack(c byte) error {
	if !b.open {
		return ErrNotOpen
	}
	if !b.dir.CanRead() {
		return ErrDirection
	}
	b.unread = append(b.unread, c)

	return nil
}

// PushBackBytes makes p the next bytes returned by Read, in order.
func (b *Buffer) PushBackBytes(p []byte) error {
	if !b.open {
		return ErrNotOpen
	}
	if !b.dir.CanRead() {
		return ErrDirection
	}
	for i := len(p) - 1; i >= 0; i-- {
		b.unread = append(b.unread, p[i])
	}

	return nil
}

// Bytes returns the buffer contents: everything written so far, or the
// original data of a read buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of unconsumed bytes, including pushed-back bytes.
func (b *Buffer) Len() int {
	return len(b.unread) + len(b.data) - b.pos
}

// Reset rewinds the read position and drops pushed-back bytes, keeping the
// contents. Useful for re-reading a buffer a second time.
func (b *Buffer) Reset() {
	b.pos = 0
	b.unread = b.unread[:0]
}
