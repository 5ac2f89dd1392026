package endpoint

import (
	"fmt"
	"os"
)

// File is an Endpoint backed by a file on disk. A write session creates or
// truncates the file; a read session opens it for sequential reading.
// Push-back is handled by an in-memory stack in front of the file cursor,
// so the file itself is never seeked.
type File struct {
	path   string
	f      *os.File
	unread []byte // push-back stack; the last element is the next byte read
	dir    Direction
}

var _ Endpoint = (*File)(nil)
var _ BytesPushBacker = (*File)(nil)

// NewFile creates a file endpoint for path. The file is not touched until
// Open is called.
func NewFile(path string) *File {
	return &File{path: path}
}

// Open opens the underlying file for dir. Files accept a single exclusive
// direction only.
func (f *File) Open(dir Direction) error {
	if f.f != nil {
		return ErrAlreadyOpen
	}
	if !dir.Exclusive() {
		return fmt.Errorf("%w: file endpoints are read-only or write-only", ErrDirection)
	}

	var (
		file *os.File
		err  error
	)
	if dir.CanRead() {
		file, err = os.Open(f.path)
	} else {
		file, err = os.Create(f.path)
	}
	if err != nil {
		return fmt.Errorf("endpoint: opening %s: %w", f.path, err)
	}

	f.f = file
	f.dir = dir
	f.unread = f.unread[:0]

	return nil
}

// Close closes the underlying file. Closing a closed endpoint is a no-op.
func (f *File) Close() error {
	if f.f == nil {
		return nil
	}
	err := f.f.Close()
	f.f = nil
	f.dir = 0
	if err != nil {
		return fmt.Errorf("endpoint: closing %s: %w", f.path, err)
	}

	return nil
}

func (f *File) IsOpen() bool { return f.f != nil }

func (f *File) Directions() Direction {
	if f.f == nil {
		return 0
	}

	return f.dir
}

// Read serves pushed-back bytes first, then reads from the file.
func (f *File) Read(p []byte) (int, error) {
	if f.f == nil {
		return 0, ErrNotOpen
	}
	if !f.dir.CanRead() {
		return 0, ErrDirection
	}
	if len(p) == 0 {
		return 0, nil
	}

	if n := len(f.unread); n > 0 {
		count := min(n, len(p))
		for i := 0; i < count; i++ {
			p[i] = f.unread[n-1-i]
		}
		f.unread = f.unread[:n-count]

		return count, nil
	}

	return f.f.Read(p)
}

// Write writes p to the file.
func (f *File) Write(p []byte) (int, error) {
	if f.f == nil {
		return 0, ErrNotOpen
	}
	if !f.dir.CanWrite() {
		return 0, ErrDirection
	}

	return f.f.Write(p)
}

// PushBack makes c the next byte returned by Read.
func (f *File) PushBack(c byte) error {
	if f.f == nil {
		return ErrNotOpen
	}
	if !f.dir.CanRead() {
		return ErrDirection
	}
	f.unread = append(f.unread, c)

	return nil
}

// PushBackBytes makes p the next bytes returned by Read, in order.
func (f *File) PushBackBytes(p []byte) error {
	if f.f == nil {
		return ErrNotOpen
	}
	if !f.dir.CanRead() {
		return ErrDirection
	}
	for i := len(p) - 1; i >= 0; i-- {
		f.unread = append(f.unread, p[i])
	}

	return nil
}

// Path returns the file path this endpoint operates on.
func (f *File) Path() string { return f.path }
