// Package store wires the gateway's optional storage backends behind
// small seam interfaces so repos never import a driver directly
package store

import (
	"context"
	"errors"
	"fmt"

	"coedit/internal/platform/logger"
)

// Row scans one result row
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports the outcome of a write statement
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos program against
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner adds transactional execution on top of RowQuerier
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Redis is the pub/sub seam the relay fans events through
type Redis interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Close() error
}

// Pinger marks a seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Store holds whichever backends Open brought up
// seams of disabled backends stay nil and callers check before use
type Store struct {
	// Log is handed to subclients, zero means a silent zerolog logger
	Log logger.Logger

	// PG carries snapshot persistence, nil when postgres is disabled
	PG TxRunner

	// RDS carries relay fan-out, nil when redis is disabled
	RDS Redis
}

// Open applies opts and then brings up each backend cfg enables
// it fails on the first backend that cannot be opened
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	// normalize a zero logger so subclients never nil-check
	s.Log = s.Log.With().Logger()

	if cfg.PG.Enabled {
		pgSeam, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = pgSeam
	}
	if cfg.RDS.Enabled {
		rdsSeam, err := openRedis(cfg)
		if err != nil {
			return nil, err
		}
		s.RDS = rdsSeam
	}
	return s, nil
}

// Guard pings every seam that knows how, joining the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	return errors.Join(
		pingSeam(ctx, "pg", s.PG),
		pingSeam(ctx, "redis", s.RDS),
	)
}

// pingSeam probes one seam when it implements Pinger, nil and
// ping-less seams are treated as healthy
func pingSeam(ctx context.Context, name string, seam any) error {
	p, ok := seam.(Pinger)
	if !ok || seam == nil {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Close tears down initialized backends, redis first so the relay
// stops publishing before the pool goes away
func (s *Store) Close(_ context.Context) error {
	var errs []error
	if s.RDS != nil {
		if err := s.RDS.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("pg: %w", err))
		}
	}
	return errors.Join(errs...)
}
