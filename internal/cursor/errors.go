package cursor

import (
	"errors"
	"fmt"
)

// ErrNoRowsRemaining is returned by Current when no row has been advanced
// to, or the cursor is exhausted. It marks a caller protocol error: Advance
// must be called first and its result checked.
var ErrNoRowsRemaining = errors.New("cursor: no rows remaining")

// QueryError is a server-reported fetch failure. It is terminal for the
// cursor; the buffer has already been released.
type QueryError struct {
	Msg string
}

func (e *QueryError) Error() string { return "cursor: query failed: " + e.Msg }

// FieldIndexError reports a FieldName index outside [0, FieldCount).
type FieldIndexError struct {
	Index int
	Count int
}

func (e *FieldIndexError) Error() string {
	return fmt.Sprintf("cursor: field index %d out of range [0, %d)", e.Index, e.Count)
}

// UnknownFieldError reports a FieldIndex lookup for a name not in the result.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("cursor: unknown field %q", e.Name)
}
