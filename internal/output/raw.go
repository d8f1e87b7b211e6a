package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Raw formats results as one tab-separated line per row, cells in column
// order. Strings print unquoted, NULL prints empty, arrays print as compact
// JSON.
func Raw(w io.Writer, cols []string, iter RowIterator) error {
	for {
		row, err := iter.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		parts := make([]string, len(cols))
		for i, col := range cols {
			parts[i] = cellString(row[col])
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, "\t")); err != nil {
			return err
		}
	}
}

// cellString renders one decoded value for raw and table output.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}
