package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spf13/cobra"

	"github.com/azjezz/postgres/internal/arraylit"
	"github.com/azjezz/postgres/internal/cursor"
	"github.com/azjezz/postgres/internal/output"
)

// exit codes
const (
	exitOK         = 0
	exitConnection = 1
	exitQuery      = 2
	exitINT        = 130
)

type rootConfig struct {
	host         string
	port         int
	database     string
	user         string
	password     string
	passwordFile string
	askPassword  bool
	timeout      time.Duration
	format       string
	quiet        bool
	verbose      bool
}

func newRootCmd() *cobra.Command {
	cfg := &rootConfig{}
	return buildRootCmd(cfg)
}

func buildRootCmd(cfg *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pgq",
		Short:         "PostgreSQL query and decode CLI",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.resolveEnvVars(cmd.Flags().Changed)
			return cfg.resolvePassword(cmd)
		},
	}
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.AddCommand(newExecCmd(cfg))
	cmd.AddCommand(newDecodeCmd())
	cmd.AddCommand(newFieldsCmd(cfg))

	f := cmd.PersistentFlags()
	f.StringVarP(&cfg.host, "host", "H", "localhost", "PostgreSQL host")
	f.IntVarP(&cfg.port, "port", "P", 5432, "PostgreSQL port")
	f.StringVarP(&cfg.database, "db", "d", "", "database name")
	f.StringVarP(&cfg.user, "user", "u", "postgres", "PostgreSQL user")
	f.StringVarP(&cfg.password, "password", "p", "", "PostgreSQL password (or PGPASSWORD env)")
	f.StringVar(&cfg.passwordFile, "password-file", "", "read password from file")
	f.BoolVarP(&cfg.askPassword, "ask-password", "W", false, "prompt for password")
	f.DurationVarP(&cfg.timeout, "timeout", "t", 30*time.Second, "connection timeout")
	f.StringVarP(&cfg.format, "format", "f", "", "output format: json, jsonl, raw, table (default: table on TTY, jsonl when piped)")
	f.BoolVar(&cfg.quiet, "quiet", false, "suppress non-data output to stderr")
	f.BoolVar(&cfg.verbose, "verbose", false, "show connection info and query timing to stderr")

	return cmd
}

// exitCode maps an error to the appropriate process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if isQueryError(err) {
		return exitQuery
	}
	return exitConnection
}

func isQueryError(err error) bool {
	var qe *queryError
	var ce *cursor.QueryError
	var pe *arraylit.ParseError
	var se *pgconn.PgError
	var fe *output.UnknownFormatError
	return errors.As(err, &qe) || errors.As(err, &ce) || errors.As(err, &pe) ||
		errors.As(err, &se) || errors.As(err, &fe)
}

// resolveEnvVars applies env var values for flags not explicitly set via CLI.
func (c *rootConfig) resolveEnvVars(changed func(string) bool) {
	applyEnvStr(&c.host, changed("host"), "PGHOST")
	applyEnvStr(&c.user, changed("user"), "PGUSER")
	applyEnvStr(&c.password, changed("password"), "PGPASSWORD")
	applyEnvStr(&c.database, changed("db"), "PGDATABASE")
	if !changed("port") {
		if v := os.Getenv("PGPORT"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.port = n
			}
		}
	}
}

// applyEnvStr sets *dst to the env var value when the flag was not explicitly set.
func applyEnvStr(dst *string, flagChanged bool, key string) {
	if flagChanged {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// resolvePassword loads the password from --password-file, or prompts for it
// when --ask-password is set and no password was given otherwise.
func (c *rootConfig) resolvePassword(cmd *cobra.Command) error {
	if c.passwordFile != "" {
		data, err := os.ReadFile(c.passwordFile)
		if err != nil {
			return fmt.Errorf("reading password file: %w", err)
		}
		c.password = strings.TrimSpace(string(data))
		return nil
	}
	if c.askPassword && c.password == "" {
		pwd, err := promptPassword(cmd.ErrOrStderr(), cmd.InOrStdin())
		if err != nil {
			return err
		}
		c.password = pwd
	}
	return nil
}
