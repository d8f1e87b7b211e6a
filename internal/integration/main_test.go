//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/azjezz/postgres/internal/client"
	"github.com/azjezz/postgres/internal/cursor"
	"github.com/azjezz/postgres/internal/pgtype"
)

var (
	containerHost string
	containerPort int
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		// postgres restarts once during init; the ready line shows twice
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(2 * time.Minute),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if ctr != nil {
			_ = ctr.Terminate(ctx)
		}
		_, _ = fmt.Fprintf(os.Stderr, "start postgres container: %v\n", err)
		os.Exit(1)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		_, _ = fmt.Fprintf(os.Stderr, "container host: %v\n", err)
		os.Exit(1)
	}

	port, err := ctr.MappedPort(ctx, "5432")
	if err != nil {
		_ = ctr.Terminate(ctx)
		_, _ = fmt.Fprintf(os.Stderr, "container port: %v\n", err)
		os.Exit(1)
	}

	containerHost = host
	containerPort = port.Int()

	code := m.Run()
	_ = ctr.Terminate(ctx)
	os.Exit(code)
}

// defaultCfg returns a Config pointing at the shared test container.
func defaultCfg() client.Config {
	return client.Config{
		Host:     containerHost,
		Port:     containerPort,
		Database: "postgres",
		User:     "postgres",
		Password: "postgres",
		Timeout:  30 * time.Second,
	}
}

// newClient connects to the shared test container and registers cleanup.
func newClient(t *testing.T) *client.Client {
	t.Helper()
	cl, err := client.Connect(context.Background(), defaultCfg())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = cl.Close(context.Background()) })
	return cl
}

// queryCursor runs sql and wraps the result in a cursor, with cleanup.
func queryCursor(t *testing.T, cl *client.Client, sql string, reg pgtype.Registry) *cursor.Cursor {
	t.Helper()
	buf, err := cl.Exec(context.Background(), sql)
	if err != nil {
		t.Fatalf("exec %q: %v", sql, err)
	}
	cur := cursor.New(buf, reg)
	t.Cleanup(func() { _ = cur.Close() })
	return cur
}

// queryRows runs sql and collects every decoded row.
func queryRows(t *testing.T, cl *client.Client, sql string, reg pgtype.Registry) []cursor.Row {
	t.Helper()
	ctx := context.Background()
	cur := queryCursor(t, cl, sql, reg)
	var rows []cursor.Row
	for {
		ok, err := cur.Advance(ctx)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if !ok {
			return rows
		}
		row, err := cur.Current()
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		rows = append(rows, row)
	}
}

// queryOne runs sql expecting exactly one row.
func queryOne(t *testing.T, cl *client.Client, sql string, reg pgtype.Registry) cursor.Row {
	t.Helper()
	rows := queryRows(t, cl, sql, reg)
	if len(rows) != 1 {
		t.Fatalf("%q: got %d rows, want 1", sql, len(rows))
	}
	return rows[0]
}
