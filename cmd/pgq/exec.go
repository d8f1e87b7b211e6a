package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lib/pq/oid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/azjezz/postgres/internal/client"
	"github.com/azjezz/postgres/internal/cursor"
	"github.com/azjezz/postgres/internal/output"
	"github.com/azjezz/postgres/internal/pgtype"
)

// queryError wraps errors that should map to the exitQuery exit code.
type queryError struct{ err error }

func (e *queryError) Error() string { return e.err.Error() }
func (e *queryError) Unwrap() error { return e.err }

// defaultRegistry covers the types outside the built-in dispatch table whose
// array delimiter is not the comma.
var defaultRegistry = pgtype.Registry{
	uint32(oid.T__box): {Category: pgtype.Array, Delim: ';'},
}

func newExecCmd(cfg *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [sql]",
		Short: "Execute a SQL statement and print decoded rows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readSQL(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runExec(cmd.Context(), cfg, sql, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	return cmd
}

// readSQL returns the statement from args[0] or by reading stdin.
func readSQL(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("exec: reading stdin: %w", err)
	}
	sql := strings.TrimSpace(string(data))
	if sql == "" {
		return "", errors.New("exec: empty statement")
	}
	return sql, nil
}

func runExec(ctx context.Context, cfg *rootConfig, sql string, out, errOut io.Writer) error {
	cur, cleanup, err := queryCursor(ctx, cfg, sql, errOut)
	if err != nil {
		return err
	}
	defer cleanup()

	cols := make([]string, cur.FieldCount())
	for i := range cols {
		cols[i], _ = cur.FieldName(i)
	}

	format := cfg.format
	if f, ok := out.(*os.File); ok {
		format = output.DetectFormat(f, cfg.format)
	} else if format == "" {
		format = "jsonl"
	}

	iter := &cursorIter{ctx: ctx, cur: cur}
	if err := output.Render(out, format, cols, iter); err != nil {
		return err
	}
	return nil
}

// queryCursor connects, runs sql, and wraps the buffered result in a cursor.
// cleanup closes the cursor and the connection.
func queryCursor(ctx context.Context, cfg *rootConfig, sql string, errOut io.Writer) (*cursor.Cursor, func(), error) {
	connCfg := client.Config{
		Host:     cfg.host,
		Port:     cfg.port,
		Database: cfg.database,
		User:     cfg.user,
		Password: cfg.password,
		Timeout:  cfg.timeout,
	}
	if cfg.verbose && !cfg.quiet {
		_, _ = fmt.Fprintf(errOut, "connecting to %s\n", connCfg)
	}

	cl, err := client.Connect(ctx, connCfg)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	buf, err := cl.Exec(ctx, sql)
	if err != nil {
		_ = cl.Close(ctx)
		return nil, nil, &queryError{err: err}
	}
	if cfg.verbose && !cfg.quiet {
		_, _ = fmt.Fprintf(errOut, "query returned %d row(s) in %s\n", buf.Len(), time.Since(start).Round(time.Millisecond))
	}

	cur := cursor.New(buf, defaultRegistry)
	cleanup := func() {
		_ = cur.Close()
		_ = cl.Close(context.Background())
	}
	return cur, cleanup, nil
}

// cursorIter adapts the cursor's Advance/Current protocol to the io.EOF
// iterator the output package consumes.
type cursorIter struct {
	ctx context.Context
	cur *cursor.Cursor
}

func (it *cursorIter) Next() (map[string]any, error) {
	ok, err := it.cur.Advance(it.ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, io.EOF
	}
	row, err := it.cur.Current()
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (it *cursorIter) Close() error { return it.cur.Close() }

// promptPassword asks for a password on w, reading it from r without echo.
// Falls back to plain line reading for non-TTY input (tests, piped input).
func promptPassword(w io.Writer, r io.Reader) (string, error) {
	_, _ = fmt.Fprint(w, "Password: ")
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec
		pwd, err := term.ReadPassword(int(f.Fd())) //nolint:gosec
		_, _ = fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(pwd), nil
	}
	// non-TTY: read one line
	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return "", errors.New("no password provided")
}
