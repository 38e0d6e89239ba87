package store

import (
	"context"
	"errors"
	"time"

	"coedit/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgAdapter narrows pg.PG to the RowQuerier/TxRunner surface repos use,
// reporting every statement to the configured tracer
type pgAdapter struct {
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter { return &pgAdapter{p: p} }

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("pg: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := a.p.Pool.Exec(ctx, sql, args...)
	observe(ctx, a.tracer(), a.slowUS(), sql, args, start, err)
	return cmdTag{ct}, err
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.p.Pool.Query(ctx, sql, args...)
	// timed at open; scan time is not included
	observe(ctx, a.tracer(), a.slowUS(), sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return resultRows{r: rs}, nil
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := a.p.Pool.QueryRow(ctx, sql, args...)
	// pgx defers execution to Scan, so the event fires there
	return deferredRow{r: r, done: func(scanErr error) {
		observe(ctx, a.tracer(), a.slowUS(), sql, args, start, scanErr)
	}}
}

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	q := txQuerier{tx: tx, tracer: a.tracer(), slowUS: a.slowUS()}
	if err := fn(q); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (a *pgAdapter) tracer() pg.QueryTracer {
	if a == nil || a.p == nil {
		return nil
	}
	return a.p.Tracer
}

func (a *pgAdapter) slowUS() int64 {
	if a == nil || a.p == nil {
		return -1
	}
	return int64(a.p.SlowMs) * 1000
}

// observe reports one finished statement to the tracer, flagging it slow
// when it crossed the threshold
func observe(ctx context.Context, tracer pg.QueryTracer, slowUS int64, sql string, args []any, start time.Time, err error) {
	if tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      slowUS >= 0 && elapsedUS >= slowUS,
	})
}

// txQuerier satisfies RowQuerier inside a transaction, tracing statements
// the same way the pool adapter does
type txQuerier struct {
	tx     pgx.Tx
	tracer pg.QueryTracer
	slowUS int64
}

func (t txQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.tx.Exec(ctx, sql, args...)
	observe(ctx, t.tracer, t.slowUS, sql, args, start, err)
	return cmdTag{ct}, err
}

func (t txQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.tx.Query(ctx, sql, args...)
	observe(ctx, t.tracer, t.slowUS, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return resultRows{r: rs}, nil
}

func (t txQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := t.tx.QueryRow(ctx, sql, args...)
	return deferredRow{r: r, done: func(scanErr error) {
		observe(ctx, t.tracer, t.slowUS, sql, args, start, scanErr)
	}}
}

// thin bridges from pgx types to the store interfaces

type deferredRow struct {
	r    pgx.Row
	done func(error)
}

func (d deferredRow) Scan(dst ...any) error {
	err := d.r.Scan(dst...)
	if d.done != nil {
		d.done(err)
	}
	return err
}

type resultRows struct{ r pgx.Rows }

func (x resultRows) Next() bool            { return x.r.Next() }
func (x resultRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x resultRows) Err() error            { return x.r.Err() }
func (x resultRows) Close()                { x.r.Close() }

func (x resultRows) Columns() []string {
	fds := x.r.FieldDescriptions()
	out := make([]string, len(fds))
	for i := range fds {
		out[i] = string(fds[i].Name)
	}
	return out
}

type cmdTag struct{ t pgconn.CommandTag }

func (c cmdTag) String() string      { return c.t.String() }
func (c cmdTag) RowsAffected() int64 { return c.t.RowsAffected() }
