package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSONL formats results as newline-delimited JSON (one compact object per line).
func JSONL(w io.Writer, iter RowIterator) error {
	for {
		row, err := iter.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("output: marshal row: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
}
