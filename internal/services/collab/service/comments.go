package service

import (
	"context"

	perr "coedit/internal/platform/errors"
	"coedit/internal/services/collab/domain"
)

// AddComment appends a comment to the session's document. The author must
// be a participant
func (m *Manager) AddComment(ctx context.Context, sessionID string, in domain.CommentInput) (domain.Comment, error) {
	return m.commentOp(sessionID, in.AuthorID, domain.EventCommentAdded, func(s *session) (domain.Comment, error) {
		return m.docs.AddComment(s.documentID, in, m.now())
	})
}

// UpdateComment replaces a comment's content
func (m *Manager) UpdateComment(ctx context.Context, sessionID, commentID, content string) (domain.Comment, error) {
	return m.commentOp(sessionID, "", domain.EventCommentUpdated, func(s *session) (domain.Comment, error) {
		return m.docs.UpdateComment(s.documentID, commentID, content, m.now())
	})
}

// ResolveComment marks a comment resolved. Resolving twice is a no-op
func (m *Manager) ResolveComment(ctx context.Context, sessionID, commentID string) (domain.Comment, error) {
	return m.commentOp(sessionID, "", domain.EventCommentResolved, func(s *session) (domain.Comment, error) {
		return m.docs.ResolveComment(s.documentID, commentID, m.now())
	})
}

// AddReply appends a threaded reply to a comment. The reply author must be
// a participant
func (m *Manager) AddReply(ctx context.Context, sessionID, commentID string, in domain.ReplyInput) (domain.Comment, error) {
	return m.commentOp(sessionID, in.AuthorID, domain.EventCommentUpdated, func(s *session) (domain.Comment, error) {
		return m.docs.AddReply(s.documentID, commentID, in, m.now())
	})
}

// commentOp runs fn under the session lock, bumps activity, and publishes
// kind with the resulting comment. authorID is checked for membership when
// non-empty
func (m *Manager) commentOp(sessionID, authorID string, kind domain.EventKind, fn func(*session) (domain.Comment, error)) (domain.Comment, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return domain.Comment{}, err
	}
	now := m.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if authorID != "" {
		if _, ok := s.participants[authorID]; !ok {
			return domain.Comment{}, perr.NotInSessionf("user %s is not in session %s", authorID, sessionID)
		}
	}

	c, err := fn(s)
	if err != nil {
		return domain.Comment{}, err
	}
	s.lastActivity = now

	m.publish(domain.Event{
		Kind:       kind,
		SessionID:  sessionID,
		DocumentID: s.documentID,
		UserID:     c.AuthorID,
		Comment:    &c,
		At:         now,
	})
	return c, nil
}
