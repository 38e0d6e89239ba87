// Package store owns document state: content, version, participants, and
// comments. Writes are serialized per document; snapshots are deep copies
// taken under the same lock so they always reflect a single version
package store

import (
	"sync"
	"time"

	"coedit/internal/core/ot"
	perr "coedit/internal/platform/errors"
	"coedit/internal/services/collab/domain"

	"github.com/google/uuid"
)

// Config controls the document store
type Config struct {
	// HistoryLimit caps the per-document transform history; operations based
	// more than this many versions behind are rejected with Conflict and the
	// caller must resync from a snapshot
	HistoryLimit int
}

// DocStore is the in-memory document owner keyed by document id
type DocStore struct {
	cfg  Config
	mu   sync.RWMutex
	docs map[string]*document
}

// document is the live mutable state; never handed out
type document struct {
	mu        sync.Mutex
	id        string
	content   string
	version   uint64
	createdAt time.Time
	updatedAt time.Time

	// participants refcounts users by session so a user in two sessions
	// stays a participant until the last leave
	participants map[string]int

	comments []domain.Comment

	// applied holds the flattened operations that produced each version;
	// applied[i] committed version firstVersion+i+1. Trimmed to HistoryLimit
	applied      [][]ot.Operation
	firstVersion uint64
}

// New constructs a DocStore
func New(cfg Config) *DocStore {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 1024
	}
	return &DocStore{cfg: cfg, docs: make(map[string]*document)}
}

// GetOrCreate returns the document with id, creating an empty one at
// version zero when absent
func (s *DocStore) GetOrCreate(id string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; ok {
		return
	}
	s.docs[id] = &document{
		id:           id,
		createdAt:    now,
		updatedAt:    now,
		participants: make(map[string]int),
	}
}

// get returns the live document or a NotFound error
func (s *DocStore) get(id string) (*document, error) {
	s.mu.RLock()
	d, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, perr.NotFoundf("document %s not found", id)
	}
	return d, nil
}

// Count returns the number of documents
func (s *DocStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Apply transforms op against the history after baseVersion (nil means
// authored against current, no transform), validates it, applies it, and
// bumps the version by exactly one. The returned slice holds the primitives
// actually applied (more than one when a concurrent insert split a delete).
// A failed apply leaves content and version untouched
func (s *DocStore) Apply(id string, op ot.Operation, baseVersion *uint64, now time.Time) ([]ot.Operation, uint64, error) {
	d, err := s.get(id)
	if err != nil {
		return nil, 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ops := []ot.Operation{op}
	if baseVersion != nil && *baseVersion < d.version {
		hist, err := d.historyLocked(*baseVersion)
		if err != nil {
			return nil, 0, err
		}
		ops = ot.TransformAll(op, hist)
	} else if baseVersion != nil && *baseVersion > d.version {
		return nil, 0, perr.InvalidArgf("base version %d is ahead of document version %d", *baseVersion, d.version)
	}

	// validate the whole list on a scratch copy before committing anything
	next, err := ot.ApplyAll(d.content, ops)
	if err != nil {
		return nil, 0, err
	}

	d.content = next
	d.version++
	d.updatedAt = now
	d.applied = append(d.applied, ops)
	if len(d.applied) > s.cfg.HistoryLimit {
		drop := len(d.applied) - s.cfg.HistoryLimit
		d.applied = append([][]ot.Operation(nil), d.applied[drop:]...)
		d.firstVersion += uint64(drop)
	}
	return ops, d.version, nil
}

// historyLocked returns the flattened committed operations in (from, current]
func (d *document) historyLocked(from uint64) ([]ot.Operation, error) {
	if from < d.firstVersion {
		return nil, perr.Conflictf("base version %d predates retained history (oldest %d); resync required", from, d.firstVersion)
	}
	var out []ot.Operation
	for _, ops := range d.applied[from-d.firstVersion:] {
		out = append(out, ops...)
	}
	return out, nil
}

// Snapshot returns a deep copy of the document at a single version
func (s *DocStore) Snapshot(id string) (domain.Document, error) {
	d, err := s.get(id)
	if err != nil {
		return domain.Document{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked(), nil
}

func (d *document) snapshotLocked() domain.Document {
	parts := make([]string, 0, len(d.participants))
	for u := range d.participants {
		parts = append(parts, u)
	}
	comments := make([]domain.Comment, len(d.comments))
	for i, c := range d.comments {
		comments[i] = copyComment(c)
	}
	return domain.Document{
		ID:           d.id,
		Content:      d.content,
		Version:      d.version,
		CreatedAt:    d.createdAt,
		UpdatedAt:    d.updatedAt,
		Participants: parts,
		Comments:     comments,
	}
}

func copyComment(c domain.Comment) domain.Comment {
	out := c
	if c.Anchor != nil {
		a := *c.Anchor
		out.Anchor = &a
	}
	out.Replies = append([]domain.Reply(nil), c.Replies...)
	return out
}

// AddParticipant refcounts user into the document's participant set
func (s *DocStore) AddParticipant(id, userID string) error {
	d, err := s.get(id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.participants[userID]++
	return nil
}

// RemoveParticipant drops one session's claim on the user; the user leaves
// the participant set only when no session for this document holds them
func (s *DocStore) RemoveParticipant(id, userID string) error {
	d, err := s.get(id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.participants[userID] <= 1 {
		delete(d.participants, userID)
		return nil
	}
	d.participants[userID]--
	return nil
}

// AddComment appends a comment and returns its snapshot
func (s *DocStore) AddComment(id string, in domain.CommentInput, now time.Time) (domain.Comment, error) {
	d, err := s.get(id)
	if err != nil {
		return domain.Comment{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	c := domain.Comment{
		ID:        uuid.NewString(),
		AuthorID:  in.AuthorID,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
		Replies:   []domain.Reply{},
	}
	if in.Anchor != nil {
		a := *in.Anchor
		c.Anchor = &a
	}
	d.comments = append(d.comments, c)
	d.updatedAt = now
	return copyComment(c), nil
}

// UpdateComment replaces a comment's content
func (s *DocStore) UpdateComment(id, commentID, content string, now time.Time) (domain.Comment, error) {
	return s.mutateComment(id, commentID, now, func(c *domain.Comment) {
		c.Content = content
		c.UpdatedAt = now
	})
}

// ResolveComment marks a comment resolved; the anchor is left untouched
func (s *DocStore) ResolveComment(id, commentID string, now time.Time) (domain.Comment, error) {
	return s.mutateComment(id, commentID, now, func(c *domain.Comment) {
		c.Resolved = true
		c.UpdatedAt = now
	})
}

// AddReply appends a reply to a comment's thread
func (s *DocStore) AddReply(id, commentID string, in domain.ReplyInput, now time.Time) (domain.Comment, error) {
	return s.mutateComment(id, commentID, now, func(c *domain.Comment) {
		c.Replies = append(c.Replies, domain.Reply{
			ID:        uuid.NewString(),
			AuthorID:  in.AuthorID,
			Content:   in.Content,
			CreatedAt: now,
		})
		c.UpdatedAt = now
	})
}

func (s *DocStore) mutateComment(id, commentID string, now time.Time, fn func(*domain.Comment)) (domain.Comment, error) {
	d, err := s.get(id)
	if err != nil {
		return domain.Comment{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.comments {
		if d.comments[i].ID == commentID {
			fn(&d.comments[i])
			d.updatedAt = now
			return copyComment(d.comments[i]), nil
		}
	}
	return domain.Comment{}, perr.NotFoundf("comment %s not found", commentID)
}
