package domain

import (
	"time"

	"coedit/internal/core/ot"
)

// EventKind discriminates collaboration event variants on the wire
type EventKind string

const (
	// EventUserJoined fires after the first successful join for a user
	EventUserJoined EventKind = "user_joined"
	// EventUserLeft fires after a leave that actually removed a user
	EventUserLeft EventKind = "user_left"
	// EventOperationApplied fires after every successful apply
	EventOperationApplied EventKind = "operation_applied"
	// EventPresenceUpdated fires after every successful presence update
	EventPresenceUpdated EventKind = "presence_updated"
	// EventCommentAdded fires after a comment is appended
	EventCommentAdded EventKind = "comment_added"
	// EventCommentUpdated fires after a comment edit or reply
	EventCommentUpdated EventKind = "comment_updated"
	// EventCommentResolved fires after a comment is resolved
	EventCommentResolved EventKind = "comment_resolved"
	// EventDocumentSynced fires on explicit caller request after recovery
	EventDocumentSynced EventKind = "document_synced"
	// EventLagged is delivered to a subscriber that fell behind the buffer;
	// it is never published, only synthesized by the fan-out
	EventLagged EventKind = "lagged"
)

// Event is the tagged wire value delivered to subscribers
// Operation carries the applied op; Operations is populated instead when a
// transform split the incoming op into multiple primitives
type Event struct {
	Kind       EventKind      `json:"event"`
	SessionID  string         `json:"session_id"`
	DocumentID string         `json:"document_id,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	Operation  *ot.Operation  `json:"operation,omitempty"`
	Operations []ot.Operation `json:"operations,omitempty"`
	NewVersion uint64         `json:"new_version,omitempty"`
	Presence   *UserPresence  `json:"presence,omitempty"`
	Comment    *Comment       `json:"comment,omitempty"`
	Count      uint64         `json:"count,omitempty"`
	At         time.Time      `json:"at"`
}
