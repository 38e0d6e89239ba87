// Package domain defines the types and interfaces for the collaboration core
package domain

import (
	"time"

	"coedit/internal/core/ot"
)

// Document is a point-in-time snapshot of a shared text document
// Version increments by exactly one per applied operation and never decreases
type Document struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	Version      uint64    `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Participants []string  `json:"participants"`
	Comments     []Comment `json:"comments"`
}

// Session is a point-in-time snapshot of an editing session bound to one document
type Session struct {
	ID           string                  `json:"id"`
	DocumentID   string                  `json:"document_id"`
	Participants map[string]UserPresence `json:"participants"`
	Operations   []ot.Operation          `json:"operations"`
	Version      uint64                  `json:"version"`
	CreatedAt    time.Time               `json:"created_at"`
	LastActivity time.Time               `json:"last_activity"`
}

// CursorPos is an advisory line/column pair; the core never interprets lines
type CursorPos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ByteRange is a half-open byte span [Start, End) into document content
type ByteRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// UserPresence is per-user per-session advisory state
type UserPresence struct {
	UserID    string     `json:"user_id"`
	Cursor    *CursorPos `json:"cursor_position,omitempty"`
	Selection *ByteRange `json:"selection_range,omitempty"`
	IsTyping  bool       `json:"is_typing"`
	LastSeen  time.Time  `json:"last_seen"`
}

// CommentAnchor pins a comment to a document region. Anchors are advisory:
// the core does not reposition them when the document changes
type CommentAnchor struct {
	Line        int `json:"line_number"`
	ColumnStart int `json:"column_start"`
	ColumnEnd   int `json:"column_end"`
}

// Reply is a single threaded reply on a comment
type Reply struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is an authored annotation with an optional anchor and reply thread
type Comment struct {
	ID        string         `json:"id"`
	AuthorID  string         `json:"author_id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Resolved  bool           `json:"resolved"`
	Anchor    *CommentAnchor `json:"anchor,omitempty"`
	Replies   []Reply        `json:"replies"`
}

// CommentInput carries the fields callers supply when adding a comment
type CommentInput struct {
	AuthorID string         `json:"author_id" validate:"required"`
	Content  string         `json:"content" validate:"required"`
	Anchor   *CommentAnchor `json:"anchor,omitempty"`
}

// ReplyInput carries the fields callers supply when replying to a comment
type ReplyInput struct {
	AuthorID string `json:"author_id" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// Stats summarizes live engine state for the meta surface
type Stats struct {
	Documents   int `json:"documents"`
	Sessions    int `json:"sessions"`
	Subscribers int `json:"subscribers"`
}
