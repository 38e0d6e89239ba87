package domain

import (
	"context"

	"coedit/internal/core/ot"
)

// EventStream is a live subscription handle. Events are delivered in
// publication order per session; a subscriber that falls behind the bounded
// buffer receives a single EventLagged carrying the drop count and should
// resynchronize from a document snapshot. Close releases buffered capacity
type EventStream interface {
	Events() <-chan Event
	Close()
}

// ManagerPort is the collaboration manager facade: session lifecycle,
// operation application with server-side transform, presence, comments,
// subscriptions, and read-only snapshot accessors
type ManagerPort interface {
	CreateSession(ctx context.Context, documentID, creatorID string) (Session, error)
	JoinSession(ctx context.Context, sessionID, userID string) (Session, error)
	LeaveSession(ctx context.Context, sessionID, userID string) error
	CloseSession(ctx context.Context, sessionID string) error

	// ApplyOperation validates op, transforms it against operations committed
	// after baseVersion when one is supplied, applies it atomically, and
	// returns the new document version. A nil baseVersion means the op was
	// authored against the current version and is applied untransformed
	ApplyOperation(ctx context.Context, sessionID string, op ot.Operation, baseVersion *uint64) (uint64, error)

	UpdatePresence(ctx context.Context, sessionID string, p UserPresence) error
	SetTyping(ctx context.Context, sessionID, userID string, typing bool) error

	AddComment(ctx context.Context, sessionID string, in CommentInput) (Comment, error)
	UpdateComment(ctx context.Context, sessionID, commentID, content string) (Comment, error)
	ResolveComment(ctx context.Context, sessionID, commentID string) (Comment, error)
	AddReply(ctx context.Context, sessionID, commentID string, in ReplyInput) (Comment, error)

	Subscribe(sessionID string) (EventStream, error)

	// Sync returns a fresh snapshot and emits EventDocumentSynced so other
	// subscribers know a recovery happened
	Sync(ctx context.Context, sessionID string) (Document, error)

	GetSession(ctx context.Context, sessionID string) (Session, error)
	GetDocument(ctx context.Context, documentID string) (Document, error)
	ListSessions(ctx context.Context) ([]Session, error)
	Participants(ctx context.Context, sessionID string) ([]UserPresence, error)
	Stats(ctx context.Context) (Stats, error)
}

// SnapshotSource is the narrow read surface persistence collaborators use;
// they must take one snapshot call per document and never observe
// intermediate state
type SnapshotSource interface {
	ListSessions(ctx context.Context) ([]Session, error)
	GetDocument(ctx context.Context, documentID string) (Document, error)
}
