// Package service implements the snapshot worker: a timer-driven loop that
// persists live document state to Postgres so an operator can restart the
// gateway without losing the latest content
package service

import (
	"context"
	"time"

	perr "coedit/internal/platform/errors"
	"coedit/internal/platform/logger"
	collabdomain "coedit/internal/services/collab/domain"
	"coedit/internal/services/snapshot/repo"
)

// Config controls the snapshot worker
type Config struct {
	// Every is the sweep interval
	Every time.Duration
}

// Service sweeps live documents into the snapshot table
type Service struct {
	cfg    Config
	repo   *repo.PG
	source collabdomain.SnapshotSource

	// last stored version per document, seeded from the table at boot
	persisted map[string]uint64

	now func() time.Time
}

// New constructs the snapshot worker
func New(r *repo.PG, source collabdomain.SnapshotSource, cfg Config) *Service {
	if cfg.Every <= 0 {
		cfg.Every = 30 * time.Second
	}
	return &Service{
		cfg:       cfg,
		repo:      r,
		source:    source,
		persisted: make(map[string]uint64),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run migrates the schema, seeds the version cache, then sweeps on a ticker
// until ctx is done
func (s *Service) Run(ctx context.Context) error {
	log := logger.Named("snapshot")

	if err := s.repo.Migrate(ctx); err != nil {
		return err
	}
	if versions, err := s.repo.Versions(ctx); err == nil {
		s.persisted = versions
	} else {
		log.Warn().Err(err).Msg("seeding version cache failed, persisting everything")
	}

	ticker := time.NewTicker(s.cfg.Every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n, err := s.Sweep(ctx); err != nil {
				log.Warn().Err(err).Msg("snapshot sweep failed")
			} else if n > 0 {
				log.Debug().Int("documents", n).Msg("snapshot sweep")
			}
		}
	}
}

// Sweep persists every live document whose version moved since the last
// sweep and returns how many were written
func (s *Service) Sweep(ctx context.Context) (int, error) {
	sessions, err := s.source.ListSessions(ctx)
	if err != nil {
		return 0, err
	}

	// sessions can share a document; take one snapshot per document
	ids := make(map[string]struct{}, len(sessions))
	for _, sess := range sessions {
		ids[sess.DocumentID] = struct{}{}
	}

	written := 0
	capturedAt := s.now()
	for id := range ids {
		doc, err := s.source.GetDocument(ctx, id)
		if err != nil {
			continue
		}
		if v, ok := s.persisted[id]; ok && v >= doc.Version {
			continue
		}
		if err := s.repo.Upsert(ctx, doc, capturedAt); err != nil {
			// transient contention gets one immediate retry, the ticker
			// covers anything longer lived
			if !perr.Retryable(err) {
				return written, err
			}
			if err := s.repo.Upsert(ctx, doc, capturedAt); err != nil {
				return written, err
			}
		}
		s.persisted[id] = doc.Version
		written++
	}
	return written, nil
}
