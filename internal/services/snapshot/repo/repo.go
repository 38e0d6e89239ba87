// Package repo persists document snapshots to Postgres
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	perr "coedit/internal/platform/errors"
	"coedit/internal/platform/store"
	collabdomain "coedit/internal/services/collab/domain"
)

// PG is the postgres-backed snapshot repository
type PG struct{ q store.RowQuerier }

// NewPG constructs the repository over any sql seam
func NewPG(q store.RowQuerier) *PG { return &PG{q: q} }

// Schema creates the snapshot table when absent; safe to run at boot
const Schema = `
CREATE TABLE IF NOT EXISTS document_snapshots (
	id          text PRIMARY KEY,
	content     text NOT NULL,
	version     bigint NOT NULL,
	comments    jsonb NOT NULL DEFAULT '[]',
	created_at  timestamptz NOT NULL,
	updated_at  timestamptz NOT NULL,
	captured_at timestamptz NOT NULL
)`

// Migrate applies the snapshot schema
func (r *PG) Migrate(ctx context.Context) error {
	_, err := r.q.Exec(ctx, Schema)
	return perr.FromPostgres(err, "apply snapshot schema")
}

// Upsert writes one document snapshot. A stale write (lower version than
// what is stored) is a no-op so concurrent snapshotters never regress state
func (r *PG) Upsert(ctx context.Context, doc collabdomain.Document, capturedAt time.Time) error {
	comments, err := json.Marshal(doc.Comments)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO document_snapshots (id, content, version, comments, created_at, updated_at, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			content     = EXCLUDED.content,
			version     = EXCLUDED.version,
			comments    = EXCLUDED.comments,
			updated_at  = EXCLUDED.updated_at,
			captured_at = EXCLUDED.captured_at
		WHERE document_snapshots.version <= EXCLUDED.version`,
		doc.ID, doc.Content, int64(doc.Version), comments,
		doc.CreatedAt, doc.UpdatedAt, capturedAt,
	)
	return perr.FromPostgresf(err, "upsert snapshot %s", doc.ID)
}

// Fetch reads one persisted snapshot back
func (r *PG) Fetch(ctx context.Context, id string) (collabdomain.Document, error) {
	doc, err := store.One(ctx, r.q, func(row store.Row) (collabdomain.Document, error) {
		var (
			d        collabdomain.Document
			version  int64
			comments []byte
		)
		if err := row.Scan(&d.ID, &d.Content, &version, &comments, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return collabdomain.Document{}, err
		}
		d.Version = uint64(version)
		if err := json.Unmarshal(comments, &d.Comments); err != nil {
			return collabdomain.Document{}, err
		}
		return d, nil
	}, `
		SELECT id, content, version, comments, created_at, updated_at
		FROM document_snapshots
		WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return collabdomain.Document{}, perr.NotFoundf("snapshot %s not found", id)
		}
		return collabdomain.Document{}, perr.FromPostgresf(err, "fetch snapshot %s", id)
	}
	return doc, nil
}

// versionRow is one (document, stored version) pair from the sweep query
type versionRow struct {
	id      string
	version int64
}

// Versions returns the stored version per document id, used to skip
// unchanged documents on the next sweep
func (r *PG) Versions(ctx context.Context) (map[string]uint64, error) {
	pairs, err := store.Many(ctx, r.q, func(row store.Row) (versionRow, error) {
		var vr versionRow
		return vr, row.Scan(&vr.id, &vr.version)
	}, `SELECT id, version FROM document_snapshots`)
	if err != nil {
		return nil, perr.FromPostgres(err, "list snapshot versions")
	}

	out := make(map[string]uint64, len(pairs))
	for _, p := range pairs {
		out[p.id] = uint64(p.version)
	}
	return out, nil
}
