// Package pg provides the Postgres client used by the snapshot store,
// built on pgxpool with optional query tracing
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the subset of pool tuning the store exposes
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
}

// PG bundles the pool with the tracing knobs the sql adapter reads
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// seam so tests can fail or fake pool construction
var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, applies MaxConns and the optional pool config
// mutator, then builds the pool. The pool is not pinged here; the store
// layer owns readiness
func Open(ctx context.Context, cfg Config, tracer QueryTracer, poolCfgMut func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if poolCfgMut != nil {
		poolCfgMut(pcfg)
	}

	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close releases the pool; safe on a nil or half-built client
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
