// Package result defines the native result buffer handed to a cursor: the
// raw textual rows and column metadata of one completed query.
package result

import "errors"

// ErrReleased is returned by Fetch after the buffer has been released.
var ErrReleased = errors.New("result: buffer released")

// Field describes one result column.
type Field struct {
	Name string
	OID  uint32
}

// Result is a completed query result. A cursor takes exclusive ownership of
// it at construction and is responsible for calling Release exactly once.
type Result interface {
	// Len returns the number of rows.
	Len() int
	// Fields returns the ordered column metadata.
	Fields() []Field
	// Fetch returns the raw cells of one row; a nil cell is a SQL NULL.
	// A non-nil error means the server reported the fetch as failed.
	Fetch(row int) ([]*string, error)
	// Release frees the buffer. Further Release calls are no-ops.
	Release()
}

// Buffer is an in-memory Result. The connection layer fills one per query;
// tests construct them directly.
type Buffer struct {
	fields   []Field
	rows     [][]*string
	fetchErr error
	released bool
	releases int
}

// NewBuffer creates a buffer over the given metadata and raw rows.
func NewBuffer(fields []Field, rows [][]*string) *Buffer {
	return &Buffer{fields: fields, rows: rows}
}

func (b *Buffer) Len() int { return len(b.rows) }

func (b *Buffer) Fields() []Field { return b.fields }

func (b *Buffer) Fetch(row int) ([]*string, error) {
	if b.released {
		return nil, ErrReleased
	}
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	return b.rows[row], nil
}

func (b *Buffer) Release() {
	b.released = true
	b.releases++
	b.rows = nil
}

// SetFetchError makes every subsequent Fetch fail with err, simulating a
// server-side failure surfacing mid-iteration.
func (b *Buffer) SetFetchError(err error) { b.fetchErr = err }

// Released reports whether Release has been called.
func (b *Buffer) Released() bool { return b.released }

// Releases returns how many times Release has been called.
func (b *Buffer) Releases() int { return b.releases }

// Text returns a pointer to s, for building literal rows.
func Text(s string) *string { return &s }
