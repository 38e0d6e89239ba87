package store

import (
	"context"
	"fmt"
	"time"

	"coedit/internal/platform/store/pg"
)

// boot defaults when PGConfig leaves the knobs at zero
const (
	defaultConnectRetries = 20
	defaultPingTimeout    = 3 * time.Second
	backoffStart          = 150 * time.Millisecond
	backoffCeiling        = 2 * time.Second
)

// openPG opens the pool and holds the adapter back until a direct
// pool ping succeeds, so no SQL trace lines fire during boot retries
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	retries := cfg.PG.ConnectRetries
	if retries <= 0 {
		retries = defaultConnectRetries
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}

	var lastErr error
	for attempt, backoff := 1, backoffStart; attempt <= retries; attempt++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()

		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}

		time.Sleep(backoff)
		if backoff *= 2; backoff > backoffCeiling {
			backoff = backoffCeiling
		}
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", retries, lastErr)
}

// openRedis only validates config here, the client itself is lazy and
// Guard performs the readiness ping so boot order never depends on redis
func openRedis(cfg Config) (Redis, error) {
	if cfg.RDS.Addr == "" {
		return nil, fmt.Errorf("redis enabled but no addr configured")
	}
	return newRedisAdapter(cfg.RDS), nil
}
