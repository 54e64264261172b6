// Package buffer implements the fixed-capacity, fill-pointer byte buffer
// that the wire codec and the filter protocol state machine use to stage
// incoming and outgoing milter frames.
package buffer

import "fmt"

// InsufficientSpace is returned by [Buffer.Append] and [Buffer.GetFree] when
// the requested write does not fit in the buffer's remaining capacity.
type InsufficientSpace struct {
	Needed    int
	Available int
}

func (e *InsufficientSpace) Error() string {
	return fmt.Sprintf("buffer: insufficient space: needed %d, available %d", e.Needed, e.Available)
}

// ErrBorrowed is returned by [Buffer.Consume] when an outstanding [Buffer.View]
// or [Buffer.ViewRange] has not yet been released. Consuming bytes out from
// under a live borrow would silently corrupt the borrowed slice, so the
// buffer refuses instead.
var ErrBorrowed = fmt.Errorf("buffer: cannot consume while a view is borrowed")

// Buffer is a growable-capacity-fixed, fill-pointer byte buffer.
//
// Bytes accumulate at the tail via Append/GetFree and are read from the head
// via View/ViewRange. Consume removes bytes from the head, shifting the
// remainder down. Capacity never changes after construction.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	data     []byte
	filled   int
	borrowed int
}

// New allocates a Buffer with the given fixed capacity.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity)}
}

// Len returns the buffer's fixed capacity.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Filled returns the number of meaningful bytes currently held at the head
// of the buffer.
func (b *Buffer) Filled() int {
	return b.filled
}

// Available returns the number of bytes that can still be written before
// the buffer is full.
func (b *Buffer) Available() int {
	return len(b.data) - b.filled
}

// Append writes p to the tail of the buffer, advancing the fill pointer.
// It fails with [InsufficientSpace] if p does not fit.
func (b *Buffer) Append(p []byte) error {
	if len(p) > b.Available() {
		return &InsufficientSpace{Needed: len(p), Available: b.Available()}
	}
	copy(b.data[b.filled:], p)
	b.filled += len(p)
	return nil
}

// GetFree reserves a writable slice of length n over the free tail region
// and advances the fill pointer by n. The caller is expected to fill the
// returned slice in place; unlike Append this does not zero the new region
// beyond what the backing array already held.
//
// It fails with [InsufficientSpace] if n exceeds the buffer's available
// space.
func (b *Buffer) GetFree(n int) ([]byte, error) {
	if n > b.Available() {
		return nil, &InsufficientSpace{Needed: n, Available: b.Available()}
	}
	start := b.filled
	b.filled += n
	return b.data[start:b.filled], nil
}

// View returns a zero-copy borrow over the filled prefix [0, Filled()) of
// the buffer. The borrow must be released with Release before Consume can
// be called again.
func (b *Buffer) View() []byte {
	return b.ViewRange(0, b.filled)
}

// ViewRange returns a zero-copy borrow over [start, stop) of the filled
// prefix of the buffer. It panics if the range is out of bounds, the same
// way a slice expression would.
func (b *Buffer) ViewRange(start, stop int) []byte {
	if start < 0 || stop > b.filled || start > stop {
		panic(fmt.Sprintf("buffer: view range [%d:%d] out of bounds for filled=%d", start, stop, b.filled))
	}
	b.borrowed++
	return b.data[start:stop:stop]
}

// Release drops one outstanding borrow previously obtained from View or
// ViewRange. Calling Release more times than there are outstanding borrows
// is a programming error and panics.
func (b *Buffer) Release() {
	if b.borrowed == 0 {
		panic("buffer: Release called without an outstanding borrow")
	}
	b.borrowed--
}

// Borrowed reports whether any view borrowed from this buffer has not yet
// been released.
func (b *Buffer) Borrowed() bool {
	return b.borrowed > 0
}

// Consume removes n bytes from the head of the buffer, shifting the
// remaining [n, Filled()) bytes down to [0, Filled()-n). It fails with
// ErrBorrowed if a view is still outstanding, and panics if n exceeds the
// number of filled bytes.
func (b *Buffer) Consume(n int) error {
	if n > b.filled {
		panic(fmt.Sprintf("buffer: cannot consume %d bytes, only %d filled", n, b.filled))
	}
	if b.borrowed > 0 {
		return ErrBorrowed
	}
	if n == 0 {
		return nil
	}
	copy(b.data, b.data[n:b.filled])
	b.filled -= n
	return nil
}
