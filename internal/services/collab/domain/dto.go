package domain

import "coedit/internal/core/ot"

// CreateSessionInput opens a session against a document, creating the
// document on first reference
type CreateSessionInput struct {
	DocumentID string `json:"document_id" validate:"required"`
	UserID     string `json:"user_id" validate:"required"`
}

// JoinSessionInput adds a user to an existing session
type JoinSessionInput struct {
	SessionID string `json:"session_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
}

// LeaveSessionInput removes a user from a session
type LeaveSessionInput struct {
	SessionID string `json:"session_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
}

// CloseSessionInput tears down a session entirely
type CloseSessionInput struct {
	SessionID string `json:"session_id" validate:"required"`
}

// OperationInput submits one edit. BaseVersion, when set, names the document
// version the op was authored against so the server can transform it over
// anything committed since; nil means authored against current
type OperationInput struct {
	SessionID   string       `json:"session_id" validate:"required"`
	Operation   ot.Operation `json:"operation"`
	BaseVersion *uint64      `json:"base_version,omitempty"`
}

// OperationResult reports the outcome of an apply
type OperationResult struct {
	NewVersion uint64 `json:"new_version"`
}

// PresenceInput replaces a user's cursor and selection state
type PresenceInput struct {
	SessionID string       `json:"session_id" validate:"required"`
	Presence  UserPresence `json:"presence"`
}

// TypingInput flips a user's typing indicator
type TypingInput struct {
	SessionID string `json:"session_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	Typing    bool   `json:"typing"`
}

// AddCommentInput attaches a comment to the session's document
type AddCommentInput struct {
	SessionID string         `json:"session_id" validate:"required"`
	AuthorID  string         `json:"author_id" validate:"required"`
	Content   string         `json:"content" validate:"required"`
	Anchor    *CommentAnchor `json:"anchor,omitempty"`
}

// UpdateCommentInput replaces a comment's content
type UpdateCommentInput struct {
	SessionID string `json:"session_id" validate:"required"`
	CommentID string `json:"comment_id" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

// ResolveCommentInput marks a comment resolved
type ResolveCommentInput struct {
	SessionID string `json:"session_id" validate:"required"`
	CommentID string `json:"comment_id" validate:"required"`
}

// AddReplyInput appends a threaded reply to a comment
type AddReplyInput struct {
	SessionID string `json:"session_id" validate:"required"`
	CommentID string `json:"comment_id" validate:"required"`
	AuthorID  string `json:"author_id" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

// SyncInput requests a fresh snapshot for a session
type SyncInput struct {
	SessionID string `json:"session_id" validate:"required"`
}
