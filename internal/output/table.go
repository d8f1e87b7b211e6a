package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	maxTableRows = 10000
	maxColWidth  = 50
)

// Table formats results as an aligned ASCII table.
// Buffers up to maxTableRows rows; if exceeded, truncates with warning to stderr.
func Table(w io.Writer, cols []string, iter RowIterator) error {
	return tableWriter(w, os.Stderr, cols, iter, maxTableRows)
}

func tableWriter(w, errOut io.Writer, cols []string, iter RowIterator, maxRows int) error {
	rows, truncated, err := collectRows(iter, maxRows)
	if err != nil {
		return err
	}

	if truncated {
		_, _ = fmt.Fprintf(errOut, "warning: result truncated at %d rows\n", maxRows)
	}

	if len(rows) == 0 {
		return nil
	}

	widths := computeWidths(cols, rows)

	if err := printTableHeader(w, cols, widths); err != nil {
		return err
	}
	for _, row := range rows {
		if err := printTableRow(w, cols, widths, row); err != nil {
			return err
		}
	}
	return nil
}

func drainIter(iter RowIterator) {
	for {
		if _, err := iter.Next(); err != nil {
			return
		}
	}
}

func collectRows(iter RowIterator, maxRows int) ([]map[string]any, bool, error) {
	var rows []map[string]any
	for {
		row, err := iter.Next()
		if errors.Is(err, io.EOF) {
			return rows, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if len(rows) >= maxRows {
			drainIter(iter)
			return rows, true, nil
		}
		rows = append(rows, row)
	}
}

func computeWidths(cols []string, rows []map[string]any) []int {
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = utf8.RuneCountInString(col)
	}
	for _, row := range rows {
		for i, col := range cols {
			v := cellString(row[col])
			if n := utf8.RuneCountInString(v); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	return widths
}

func printTableHeader(w io.Writer, cols []string, widths []int) error {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = padRight(col, widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.Join(parts, " | ")); err != nil {
		return err
	}
	seps := make([]string, len(cols))
	for i, width := range widths {
		seps[i] = strings.Repeat("-", width)
	}
	_, err := fmt.Fprintln(w, strings.Join(seps, "-+-"))
	return err
}

func printTableRow(w io.Writer, cols []string, widths []int, row map[string]any) error {
	parts := make([]string, len(cols))
	for i, col := range cols {
		v := cellString(row[col])
		if runes := []rune(v); widths[i] > 0 && len(runes) > widths[i] {
			v = string(runes[:widths[i]-1]) + "~"
		}
		parts[i] = padRight(v, widths[i])
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " | "))
	return err
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
