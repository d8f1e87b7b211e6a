// Package output renders decoded rows in the formats the CLI offers.
package output

import "io"

// RowIterator streams decoded rows from a query result. Next returns io.EOF
// after the last row.
type RowIterator interface {
	Next() (map[string]any, error)
	Close() error
}

// Render writes every row from iter to w in the given format. cols is the
// ordered column list from the cursor metadata; the map-keyed rows have no
// order of their own.
func Render(w io.Writer, format string, cols []string, iter RowIterator) error {
	switch format {
	case "json":
		return JSON(w, iter)
	case "jsonl":
		return JSONL(w, iter)
	case "raw":
		return Raw(w, cols, iter)
	case "table":
		return Table(w, cols, iter)
	default:
		return &UnknownFormatError{Format: format}
	}
}

// UnknownFormatError reports an unsupported --format value.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return "output: unknown format " + e.Format
}
