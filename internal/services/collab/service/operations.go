package service

import (
	"context"

	"coedit/internal/core/ot"
	perr "coedit/internal/platform/errors"
	"coedit/internal/platform/logger"
	"coedit/internal/services/collab/domain"
)

// ApplyOperation validates op, transforms it against operations committed
// after baseVersion when one is supplied, applies the result atomically,
// and fans out a single operation_applied event. The author must be a
// session participant. The document version advances by exactly one per
// call, even when the transform split the op
func (m *Manager) ApplyOperation(ctx context.Context, sessionID string, op ot.Operation, baseVersion *uint64) (uint64, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return 0, err
	}
	now := m.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[op.Author]; !ok {
		return 0, perr.NotInSessionf("user %s is not in session %s", op.Author, sessionID)
	}

	applied, version, err := m.docs.Apply(s.documentID, op, baseVersion, now)
	if err != nil {
		return 0, err
	}

	s.operations = append(s.operations, applied...)
	s.version = version
	s.lastActivity = now

	ev := domain.Event{
		Kind:       domain.EventOperationApplied,
		SessionID:  sessionID,
		DocumentID: s.documentID,
		UserID:     op.Author,
		NewVersion: version,
		At:         now,
	}
	if len(applied) == 1 {
		ev.Operation = &applied[0]
	} else {
		ev.Operations = applied
	}
	m.publish(ev)

	logger.C(ctx).Debug().
		Str("session_id", sessionID).
		Str("document_id", s.documentID).
		Str("author", op.Author).
		Uint64("version", version).
		Int("primitives", len(applied)).
		Msg("operation applied")

	return version, nil
}

// Sync returns a fresh document snapshot for the session and tells other
// subscribers a recovery happened
func (m *Manager) Sync(ctx context.Context, sessionID string) (domain.Document, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return domain.Document{}, err
	}
	doc, err := m.docs.Snapshot(s.documentID)
	if err != nil {
		return domain.Document{}, err
	}
	m.publish(domain.Event{
		Kind:       domain.EventDocumentSynced,
		SessionID:  sessionID,
		DocumentID: doc.ID,
		NewVersion: doc.Version,
		At:         m.now(),
	})
	return doc, nil
}
