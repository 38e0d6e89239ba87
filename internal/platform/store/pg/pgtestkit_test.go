package pg

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WithTestDB opens a client against dsn, runs fn, and closes the client
// on test cleanup
func WithTestDB(t *testing.T, dsn string, poolMut func(*pgxpool.Config), fn func(p *PG)) {
	t.Helper()

	client, err := Open(context.Background(), Config{URL: dsn}, nil, poolMut)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(client.Close)
	fn(client)
}

// AcquireConn pins one pooled connection for the test so TEMP tables and
// session settings survive across statements
func AcquireConn(t *testing.T, p *PG, ctx context.Context) *pgxpool.Conn {
	t.Helper()

	conn, err := p.Pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire conn: %v", err)
	}
	t.Cleanup(conn.Release)
	return conn
}
