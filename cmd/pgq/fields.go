package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/azjezz/postgres/internal/client"
	"github.com/azjezz/postgres/internal/result"
)

func newFieldsCmd(cfg *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields [sql]",
		Short: "Print the column metadata of a statement's result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readSQL(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runFields(cmd.Context(), cfg, sql, cmd.OutOrStdout())
		},
	}
	return cmd
}

func runFields(ctx context.Context, cfg *rootConfig, sql string, out io.Writer) error {
	cl, err := client.Connect(ctx, client.Config{
		Host:     cfg.host,
		Port:     cfg.port,
		Database: cfg.database,
		User:     cfg.user,
		Password: cfg.password,
		Timeout:  cfg.timeout,
	})
	if err != nil {
		return err
	}
	defer func() { _ = cl.Close(context.Background()) }()

	buf, err := cl.Exec(ctx, sql)
	if err != nil {
		return &queryError{err: err}
	}
	defer buf.Release()

	return printFields(out, buf.Fields())
}

func printFields(out io.Writer, fields []result.Field) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "INDEX\tNAME\tOID"); err != nil {
		return err
	}
	for i, f := range fields {
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%d\n", i, f.Name, f.OID); err != nil {
			return err
		}
	}
	return tw.Flush()
}
