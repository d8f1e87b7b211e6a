package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/azjezz/postgres/internal/arraylit"
	"github.com/azjezz/postgres/internal/pgtype"
)

// casts maps --cast names to leaf cast functions.
var casts = map[string]arraylit.LeafCast{
	"identity": arraylit.Identity,
	"int":      pgtype.Int,
	"float":    pgtype.Float,
	"bool":     pgtype.Bool,
}

func newDecodeCmd() *cobra.Command {
	var delim string
	var castName string

	cmd := &cobra.Command{
		Use:   "decode [literal]",
		Short: "Decode a PostgreSQL array literal without a server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(delim) != 1 {
				return fmt.Errorf("decode: delimiter must be a single character, got %q", delim)
			}
			cast, ok := casts[castName]
			if !ok {
				return fmt.Errorf("decode: unknown cast %q (identity, int, float, bool)", castName)
			}
			literal, err := readLiteral(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runDecode(cmd.OutOrStdout(), literal, cast, delim[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&delim, "delim", ",", "element delimiter")
	f.StringVar(&castName, "cast", "identity", "leaf cast: identity, int, float, bool")
	return cmd
}

func readLiteral(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("decode: reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func runDecode(out io.Writer, literal string, cast arraylit.LeafCast, delim byte) error {
	arr, err := arraylit.Parse(literal, cast, delim)
	if err != nil {
		return &queryError{err: err}
	}
	data, err := json.MarshalIndent(arr, "", "  ")
	if err != nil {
		return fmt.Errorf("decode: marshal: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
