package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

type mockIter struct {
	rows []map[string]any
	pos  int
	err  error // returned after all rows
}

func (m *mockIter) Next() (map[string]any, error) {
	if m.pos >= len(m.rows) {
		if m.err != nil {
			return nil, m.err
		}
		return nil, io.EOF
	}
	row := m.rows[m.pos]
	m.pos++
	return row, nil
}

func (m *mockIter) Close() error { return nil }

func TestJSON_Empty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := JSON(&buf, &mockIter{}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("got %q, want []", buf.String())
	}
}

func TestJSON_SingleRow(t *testing.T) {
	t.Parallel()
	iter := &mockIter{rows: []map[string]any{{"name": "alice", "age": int64(30)}}}
	var buf bytes.Buffer
	if err := JSON(&buf, iter); err != nil {
		t.Fatal(err)
	}
	got := strings.TrimSpace(buf.String())
	if strings.HasPrefix(got, "[") {
		t.Fatalf("single row should not be wrapped in array: %q", got)
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(got), &v); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if v["name"] != "alice" {
		t.Fatalf("unexpected document: %v", v)
	}
}

func TestJSON_MultipleRows(t *testing.T) {
	t.Parallel()
	iter := &mockIter{rows: []map[string]any{
		{"n": int64(1)},
		{"n": int64(2)},
		{"n": int64(3)},
	}}
	var buf bytes.Buffer
	if err := JSON(&buf, iter); err != nil {
		t.Fatal(err)
	}
	var v []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Fatalf("output is not a valid JSON array: %v\n%s", err, buf.String())
	}
	if len(v) != 3 {
		t.Fatalf("got %d rows, want 3", len(v))
	}
}

func TestJSON_PropagatesIterError(t *testing.T) {
	t.Parallel()
	want := errors.New("fetch broke")
	iter := &mockIter{rows: []map[string]any{{"n": int64(1)}, {"n": int64(2)}}, err: want}
	var buf bytes.Buffer
	if err := JSON(&buf, iter); !errors.Is(err, want) {
		t.Fatalf("got %v, want %v", err, want)
	}
}

func TestJSONL(t *testing.T) {
	t.Parallel()
	iter := &mockIter{rows: []map[string]any{
		{"a": int64(1), "b": nil},
		{"a": int64(2), "b": []any{true, false}},
	}}
	var buf bytes.Buffer
	if err := JSONL(&buf, iter); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, line := range lines {
		var v map[string]any
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			t.Fatalf("line %q is not valid JSON: %v", line, err)
		}
	}
}

func TestRaw(t *testing.T) {
	t.Parallel()
	iter := &mockIter{rows: []map[string]any{
		{"id": int64(1), "name": "ada", "tags": []any{int64(1), int64(2)}, "gone": nil},
	}}
	var buf bytes.Buffer
	cols := []string{"id", "name", "tags", "gone"}
	if err := Raw(&buf, cols, iter); err != nil {
		t.Fatal(err)
	}
	got := strings.TrimRight(buf.String(), "\n")
	want := "1\tada\t[1,2]\t"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTable_Basic(t *testing.T) {
	t.Parallel()
	iter := &mockIter{rows: []map[string]any{
		{"id": int64(1), "name": "ada"},
		{"id": int64(2), "name": "grace"},
	}}
	var buf bytes.Buffer
	if err := Table(&buf, []string{"id", "name"}, iter); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 { // header + separator + 2 rows
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "id") || !strings.Contains(lines[0], "name") {
		t.Fatalf("header missing columns: %q", lines[0])
	}
	if !strings.Contains(lines[1], "-+-") {
		t.Fatalf("missing separator: %q", lines[1])
	}
	if !strings.Contains(lines[3], "grace") {
		t.Fatalf("missing row: %q", lines[3])
	}
}

func TestTable_Truncation(t *testing.T) {
	t.Parallel()
	rows := make([]map[string]any, 5)
	for i := range rows {
		rows[i] = map[string]any{"n": int64(i)}
	}
	var buf, errBuf bytes.Buffer
	if err := tableWriter(&buf, &errBuf, []string{"n"}, &mockIter{rows: rows}, 3); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errBuf.String(), "truncated at 3 rows") {
		t.Fatalf("missing truncation warning: %q", errBuf.String())
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 { // header + separator + 3 rows
		t.Fatalf("got %d lines", len(lines))
	}
}

func TestTable_Empty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := Table(&buf, []string{"id"}, &mockIter{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()
	err := Render(io.Discard, "yaml", nil, &mockIter{})
	var ufe *UnknownFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnknownFormatError, got %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	if got := DetectFormat(os.Stdout, "json"); got != "json" {
		t.Fatalf("explicit flag: got %q", got)
	}

	orig := isattyFn
	defer func() { isattyFn = orig }()

	isattyFn = func(*os.File) bool { return true }
	if got := DetectFormat(os.Stdout, ""); got != "table" {
		t.Fatalf("tty: got %q", got)
	}
	isattyFn = func(*os.File) bool { return false }
	if got := DetectFormat(os.Stdout, ""); got != "jsonl" {
		t.Fatalf("pipe: got %q", got)
	}
}
