// Package cursor implements pull-based iteration over a buffered query
// result, decoding each cell by its column's type OID.
package cursor

import (
	"context"
	"fmt"

	"github.com/azjezz/postgres/internal/pgtype"
	"github.com/azjezz/postgres/internal/result"
)

// Row is one decoded row, keyed by column name. When a query yields
// duplicate column names the later column wins; use FieldName/FieldIndex on
// the cursor to see the full ordered metadata.
type Row map[string]any

// Cursor iterates over a result buffer. It is the buffer's exclusive owner
// and releases it exactly once: on exhaustion, on failure, or on Close,
// whichever comes first. Callers that abandon iteration early must Close.
//
// A cursor is driven by one caller at a time; it does no locking.
type Cursor struct {
	res    result.Result
	reg    pgtype.Registry
	fields []result.Field

	pos    int // 0 = before the first row; rows are 1..Len
	cached Row
	err    error // terminal failure, sticky
	closed bool
}

// New wraps res, capturing its field metadata once. reg may be nil.
func New(res result.Result, reg pgtype.Registry) *Cursor {
	return &Cursor{res: res, reg: reg, fields: res.Fields()}
}

// Advance moves to the next row, reporting whether one exists. It is the
// only operation in the contract allowed to suspend: a buffer-backed cursor
// returns immediately, but the signature leaves room for cursors that fetch
// over the network. The cached row is dropped on every call, even when the
// result is false. At exhaustion the buffer is released.
func (c *Cursor) Advance(ctx context.Context) (bool, error) {
	c.cached = nil
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if c.closed {
		return false, nil
	}
	c.pos++
	if c.pos > c.res.Len() {
		c.release()
		return false, nil
	}
	return true, nil
}

// Current returns the decoded row at the current position, decoding it on
// first access and caching it until the next Advance. Calling Current before
// the first Advance, or after Advance reported false, fails with
// ErrNoRowsRemaining. A fetch or decode failure releases the buffer and is
// terminal: every later Current repeats the same error.
func (c *Cursor) Current() (Row, error) {
	if c.cached != nil {
		return c.cached, nil
	}
	if c.err != nil {
		return nil, c.err
	}
	if c.closed || c.pos == 0 {
		return nil, ErrNoRowsRemaining
	}
	cells, err := c.res.Fetch(c.pos - 1)
	if err != nil {
		c.err = &QueryError{Msg: err.Error()}
		c.release()
		return nil, c.err
	}
	row := make(Row, len(c.fields))
	for i, f := range c.fields {
		cell := cells[i]
		if cell == nil {
			row[f.Name] = nil
			continue
		}
		v, err := pgtype.Decode(f.OID, *cell, c.reg)
		if err != nil {
			c.err = fmt.Errorf("cursor: decode column %q: %w", f.Name, err)
			c.release()
			return nil, c.err
		}
		row[f.Name] = v
	}
	c.cached = row
	return row, nil
}

// FieldCount returns the number of result columns.
func (c *Cursor) FieldCount() int { return len(c.fields) }

// FieldName returns the name of column i.
func (c *Cursor) FieldName(i int) (string, error) {
	if i < 0 || i >= len(c.fields) {
		return "", &FieldIndexError{Index: i, Count: len(c.fields)}
	}
	return c.fields[i].Name, nil
}

// FieldIndex returns the index of the first column named name.
func (c *Cursor) FieldIndex(name string) (int, error) {
	for i, f := range c.fields {
		if f.Name == name {
			return i, nil
		}
	}
	return 0, &UnknownFieldError{Name: name}
}

// Close releases the underlying buffer. Safe to call any number of times and
// after exhaustion or failure.
func (c *Cursor) Close() error {
	c.release()
	return nil
}

func (c *Cursor) release() {
	if c.closed {
		return
	}
	c.closed = true
	c.cached = nil
	c.res.Release()
}
