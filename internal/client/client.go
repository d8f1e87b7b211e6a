// Package client is the thin connection layer: it runs SQL over a single
// PostgreSQL connection and captures results, untouched, into the buffers
// the cursor layer decodes. Result values are always requested in text
// format so every byte of decoding stays in this repository.
package client

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/azjezz/postgres/internal/result"
)

// Config holds connection parameters.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Timeout  time.Duration
}

// String returns Config without the password.
func (c Config) String() string {
	return fmt.Sprintf("client{%s:%d db=%s user=%s}", c.Host, c.Port, c.Database, c.User)
}

// url renders the config as a postgres:// connection string.
func (c Config) url() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	if c.Database != "" {
		u.Path = "/" + c.Database
	}
	q := url.Values{"sslmode": {"prefer"}}
	if c.Timeout > 0 {
		secs := int(c.Timeout / time.Second)
		if secs < 1 {
			secs = 1
		}
		q.Set("connect_timeout", strconv.Itoa(secs))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Client is one open connection.
type Client struct {
	conn *pgconn.PgConn
}

// Connect opens a connection per cfg.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	conn, err := pgconn.Connect(ctx, cfg.url())
	if err != nil {
		return nil, fmt.Errorf("client: connect %s: %w", cfg, err)
	}
	return &Client{conn: conn}, nil
}

// Exec runs one SQL statement and buffers its complete result. The caller
// owns the returned buffer and normally hands it straight to a cursor.
func (c *Client) Exec(ctx context.Context, sql string) (*result.Buffer, error) {
	rr := c.conn.ExecParams(ctx, sql, nil, nil, nil, textResultFormats)
	res := rr.Read()
	if res.Err != nil {
		return nil, fmt.Errorf("client: exec: %w", res.Err)
	}

	fields := make([]result.Field, len(res.FieldDescriptions))
	for i, fd := range res.FieldDescriptions {
		fields[i] = result.Field{Name: fd.Name, OID: fd.DataTypeOID}
	}
	rows := make([][]*string, len(res.Rows))
	for i, raw := range res.Rows {
		cells := make([]*string, len(raw))
		for j, v := range raw {
			if v == nil {
				continue
			}
			cells[j] = result.Text(string(v))
		}
		rows[i] = cells
	}
	return result.NewBuffer(fields, rows), nil
}

// textResultFormats requests text format for every result column.
var textResultFormats = []int16{0}

// Close terminates the connection.
func (c *Client) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}
