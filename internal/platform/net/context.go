// Package net carries request-scoped identity on context: the request id
// (shared with chi) plus the collaboration session and user ids
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey uint8

const (
	keySession ctxKey = iota
	keyUser
)

// WithRequest stores the request and session ids, skipping empty values.
// The request id reuses chi's key so chimw.GetReqID and RequestID agree.
func WithRequest(ctx context.Context, reqID, sessionID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if sessionID != "" {
		ctx = context.WithValue(ctx, keySession, sessionID)
	}
	return ctx
}

// WithUser stores the authenticated user id
func WithUser(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyUser, userID)
}

// RequestID reads the request id, empty when absent
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// SessionID reads the collaboration session id, empty when absent
func SessionID(ctx context.Context) string { return str(ctx, keySession) }

// UserID reads the user id, empty when absent
func UserID(ctx context.Context) string { return str(ctx, keyUser) }

func str(ctx context.Context, key ctxKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}
