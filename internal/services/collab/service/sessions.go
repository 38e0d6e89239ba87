package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coedit/internal/core/ot"
	perr "coedit/internal/platform/errors"
	"coedit/internal/platform/logger"
	"coedit/internal/services/collab/domain"
)

// CreateSession registers a new session bound to documentID, creating the
// document on first reference. The creator joins immediately
func (m *Manager) CreateSession(ctx context.Context, documentID, userID string) (domain.Session, error) {
	now := m.now()
	m.docs.GetOrCreate(documentID, now)

	s := &session{
		id:           uuid.NewString(),
		documentID:   documentID,
		participants: map[string]domain.UserPresence{userID: newPresence(userID, now)},
		createdAt:    now,
		lastActivity: now,
	}
	_ = m.docs.AddParticipant(documentID, userID)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	logger.C(ctx).Info().
		Str("session_id", s.id).
		Str("document_id", documentID).
		Str("user_id", userID).
		Msg("session created")

	m.publish(domain.Event{
		Kind:      domain.EventUserJoined,
		SessionID: s.id,
		UserID:    userID,
		At:        now,
	})
	return s.snapshot(), nil
}

// JoinSession adds userID to the session. Joining twice is a no-op that
// still returns the session
func (m *Manager) JoinSession(ctx context.Context, sessionID, userID string) (domain.Session, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	now := m.now()

	s.mu.Lock()
	_, already := s.participants[userID]
	if !already {
		s.participants[userID] = newPresence(userID, now)
	}
	s.lastActivity = now
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if !already {
		_ = m.docs.AddParticipant(s.documentID, userID)
		m.publish(domain.Event{
			Kind:      domain.EventUserJoined,
			SessionID: sessionID,
			UserID:    userID,
			At:        now,
		})
	}
	return snap, nil
}

// LeaveSession removes userID from the session. Leaving a session the user
// is not in is a no-op
func (m *Manager) LeaveSession(ctx context.Context, sessionID, userID string) error {
	s, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	now := m.now()

	s.mu.Lock()
	_, present := s.participants[userID]
	if present {
		delete(s.participants, userID)
	}
	s.lastActivity = now
	s.mu.Unlock()

	if present {
		_ = m.docs.RemoveParticipant(s.documentID, userID)
		m.publish(domain.Event{
			Kind:      domain.EventUserLeft,
			SessionID: sessionID,
			UserID:    userID,
			At:        now,
		})
	}
	return nil
}

// CloseSession tears the session down: remaining participants are released
// from the document and all subscriber streams are closed
func (m *Manager) CloseSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()
	if !ok {
		return perr.NotFoundf("session %s not found", sessionID)
	}

	s.mu.Lock()
	remaining := make([]string, 0, len(s.participants))
	for id := range s.participants {
		remaining = append(remaining, id)
	}
	s.participants = map[string]domain.UserPresence{}
	s.mu.Unlock()
	for _, id := range remaining {
		_ = m.docs.RemoveParticipant(s.documentID, id)
	}

	m.hub.DropSession(sessionID)
	logger.C(ctx).Info().Str("session_id", sessionID).Msg("session closed")
	return nil
}

// UpdatePresence replaces the user's cursor, selection, and typing state.
// The user must be a participant
func (m *Manager) UpdatePresence(ctx context.Context, sessionID string, p domain.UserPresence) error {
	return m.mutatePresence(sessionID, p.UserID, func(cur *domain.UserPresence) {
		cur.Cursor = cloneCursor(p.Cursor)
		cur.Selection = cloneRange(p.Selection)
		cur.IsTyping = p.IsTyping
	})
}

// SetTyping flips the user's typing indicator
func (m *Manager) SetTyping(ctx context.Context, sessionID, userID string, typing bool) error {
	return m.mutatePresence(sessionID, userID, func(p *domain.UserPresence) {
		p.IsTyping = typing
	})
}

// mutatePresence applies fn to the user's presence under the session lock
// and publishes the updated state
func (m *Manager) mutatePresence(sessionID, userID string, fn func(*domain.UserPresence)) error {
	s, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	now := m.now()

	s.mu.Lock()
	p, ok := s.participants[userID]
	if !ok {
		s.mu.Unlock()
		return perr.NotInSessionf("user %s is not in session %s", userID, sessionID)
	}
	fn(&p)
	p.LastSeen = now
	s.participants[userID] = p
	s.lastActivity = now
	s.mu.Unlock()

	m.publish(domain.Event{
		Kind:      domain.EventPresenceUpdated,
		SessionID: sessionID,
		UserID:    userID,
		Presence:  &p,
		At:        now,
	})
	return nil
}

// Participants returns a snapshot of the session's presence map
func (m *Manager) Participants(ctx context.Context, sessionID string) ([]domain.UserPresence, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserPresence, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, *clonePresence(&p))
	}
	return out, nil
}

// GetSession returns a snapshot of the session
func (m *Manager) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	return s.snapshot(), nil
}

// ListSessions returns snapshots of all live sessions
func (m *Manager) ListSessions(ctx context.Context) ([]domain.Session, error) {
	m.mu.RLock()
	live := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	m.mu.RUnlock()

	out := make([]domain.Session, 0, len(live))
	for _, s := range live {
		out = append(out, s.snapshot())
	}
	return out, nil
}

// GetDocument returns a snapshot of the document
func (m *Manager) GetDocument(ctx context.Context, documentID string) (domain.Document, error) {
	return m.docs.Snapshot(documentID)
}

func newPresence(userID string, now time.Time) domain.UserPresence {
	return domain.UserPresence{
		UserID:   userID,
		LastSeen: now,
	}
}

func (s *session) snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked deep-copies the session; caller holds s.mu
func (s *session) snapshotLocked() domain.Session {
	parts := make(map[string]domain.UserPresence, len(s.participants))
	for id, p := range s.participants {
		parts[id] = *clonePresence(&p)
	}
	ops := make([]ot.Operation, len(s.operations))
	copy(ops, s.operations)
	return domain.Session{
		ID:           s.id,
		DocumentID:   s.documentID,
		Participants: parts,
		Operations:   ops,
		Version:      s.version,
		CreatedAt:    s.createdAt,
		LastActivity: s.lastActivity,
	}
}

func clonePresence(p *domain.UserPresence) *domain.UserPresence {
	cp := *p
	cp.Cursor = cloneCursor(p.Cursor)
	cp.Selection = cloneRange(p.Selection)
	return &cp
}

func cloneCursor(c *domain.CursorPos) *domain.CursorPos {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func cloneRange(r *domain.ByteRange) *domain.ByteRange {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}
