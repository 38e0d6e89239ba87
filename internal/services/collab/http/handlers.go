// Package http provides HTTP transport for the collaboration API
package http

import (
	stdhttp "net/http"

	perr "coedit/internal/platform/errors"

	"coedit/internal/modkit/httpkit"
	"coedit/internal/services/collab/domain"
)

// Register mounts collaboration endpoints on the given router.
// Mutations are POST with JSON bodies; reads are GET with query params
func Register(r httpkit.Router, svc domain.ManagerPort) {
	h := &handlers{svc: svc}

	httpkit.PostJSON[domain.CreateSessionInput](r, "/sessions", h.createSession)
	httpkit.PostJSON[domain.JoinSessionInput](r, "/sessions/join", h.joinSession)
	httpkit.PostJSON[domain.LeaveSessionInput](r, "/sessions/leave", h.leaveSession)
	httpkit.PostJSON[domain.CloseSessionInput](r, "/sessions/close", h.closeSession)

	httpkit.PostJSON[domain.OperationInput](r, "/operations", h.applyOperation)
	httpkit.PostJSON[domain.PresenceInput](r, "/presence", h.updatePresence)
	httpkit.PostJSON[domain.TypingInput](r, "/presence/typing", h.setTyping)

	httpkit.PostJSON[domain.AddCommentInput](r, "/comments", h.addComment)
	httpkit.PostJSON[domain.UpdateCommentInput](r, "/comments/update", h.updateComment)
	httpkit.PostJSON[domain.ResolveCommentInput](r, "/comments/resolve", h.resolveComment)
	httpkit.PostJSON[domain.AddReplyInput](r, "/comments/reply", h.addReply)

	httpkit.PostJSON[domain.SyncInput](r, "/sync", h.sync)

	httpkit.Get(r, "/sessions", h.listSessions)
	httpkit.Get(r, "/session", h.getSession)
	httpkit.Get(r, "/participants", h.participants)
	httpkit.Get(r, "/document", h.getDocument)
}

type handlers struct{ svc domain.ManagerPort }

// @Summary Create an editing session
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.CreateSessionInput true "Session"
// @Success 200 {object} domain.Session "ok"
// @Router /collab/sessions [post]
func (h *handlers) createSession(r *stdhttp.Request, in domain.CreateSessionInput) (any, error) {
	return h.svc.CreateSession(r.Context(), in.DocumentID, in.UserID)
}

// @Summary Join a session
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.JoinSessionInput true "Join"
// @Success 200 {object} domain.Session "ok"
// @Router /collab/sessions/join [post]
func (h *handlers) joinSession(r *stdhttp.Request, in domain.JoinSessionInput) (any, error) {
	return h.svc.JoinSession(r.Context(), in.SessionID, in.UserID)
}

// @Summary Leave a session
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.LeaveSessionInput true "Leave"
// @Success 200 "ok"
// @Router /collab/sessions/leave [post]
func (h *handlers) leaveSession(r *stdhttp.Request, in domain.LeaveSessionInput) (any, error) {
	if err := h.svc.LeaveSession(r.Context(), in.SessionID, in.UserID); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// @Summary Close a session
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.CloseSessionInput true "Close"
// @Success 204 "closed"
// @Router /collab/sessions/close [post]
func (h *handlers) closeSession(r *stdhttp.Request, in domain.CloseSessionInput) (any, error) {
	if err := h.svc.CloseSession(r.Context(), in.SessionID); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// @Summary Submit an edit operation
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.OperationInput true "Operation"
// @Success 200 {object} domain.OperationResult "ok"
// @Router /collab/operations [post]
func (h *handlers) applyOperation(r *stdhttp.Request, in domain.OperationInput) (any, error) {
	v, err := h.svc.ApplyOperation(r.Context(), in.SessionID, in.Operation, in.BaseVersion)
	if err != nil {
		return nil, err
	}
	return domain.OperationResult{NewVersion: v}, nil
}

// @Summary Update cursor and selection presence
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.PresenceInput true "Presence"
// @Success 204 "updated"
// @Router /collab/presence [post]
func (h *handlers) updatePresence(r *stdhttp.Request, in domain.PresenceInput) (any, error) {
	if err := h.svc.UpdatePresence(r.Context(), in.SessionID, in.Presence); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// @Summary Set the typing indicator
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.TypingInput true "Typing"
// @Success 204 "updated"
// @Router /collab/presence/typing [post]
func (h *handlers) setTyping(r *stdhttp.Request, in domain.TypingInput) (any, error) {
	if err := h.svc.SetTyping(r.Context(), in.SessionID, in.UserID, in.Typing); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// @Summary Add a comment
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.AddCommentInput true "Comment"
// @Success 200 {object} domain.Comment "ok"
// @Router /collab/comments [post]
func (h *handlers) addComment(r *stdhttp.Request, in domain.AddCommentInput) (any, error) {
	return h.svc.AddComment(r.Context(), in.SessionID, domain.CommentInput{
		AuthorID: in.AuthorID,
		Content:  in.Content,
		Anchor:   in.Anchor,
	})
}

// @Summary Edit a comment
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.UpdateCommentInput true "Edit"
// @Success 200 {object} domain.Comment "ok"
// @Router /collab/comments/update [post]
func (h *handlers) updateComment(r *stdhttp.Request, in domain.UpdateCommentInput) (any, error) {
	return h.svc.UpdateComment(r.Context(), in.SessionID, in.CommentID, in.Content)
}

// @Summary Resolve a comment
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.ResolveCommentInput true "Resolve"
// @Success 200 {object} domain.Comment "ok"
// @Router /collab/comments/resolve [post]
func (h *handlers) resolveComment(r *stdhttp.Request, in domain.ResolveCommentInput) (any, error) {
	return h.svc.ResolveComment(r.Context(), in.SessionID, in.CommentID)
}

// @Summary Reply to a comment
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.AddReplyInput true "Reply"
// @Success 200 {object} domain.Comment "ok"
// @Router /collab/comments/reply [post]
func (h *handlers) addReply(r *stdhttp.Request, in domain.AddReplyInput) (any, error) {
	return h.svc.AddReply(r.Context(), in.SessionID, in.CommentID, domain.ReplyInput{
		AuthorID: in.AuthorID,
		Content:  in.Content,
	})
}

// @Summary Snapshot the session's document for recovery
// @Tags Collab
// @Accept json
// @Produce json
// @Param payload body domain.SyncInput true "Sync"
// @Success 200 {object} domain.Document "ok"
// @Router /collab/sync [post]
func (h *handlers) sync(r *stdhttp.Request, in domain.SyncInput) (any, error) {
	return h.svc.Sync(r.Context(), in.SessionID)
}

// @Summary List live sessions
// @Tags Collab
// @Produce json
// @Success 200 {array} domain.Session "ok"
// @Router /collab/sessions [get]
func (h *handlers) listSessions(r *stdhttp.Request) (any, error) {
	return h.svc.ListSessions(r.Context())
}

// @Summary Fetch one session
// @Tags Collab
// @Produce json
// @Param id query string true "session id"
// @Success 200 {object} domain.Session "ok"
// @Router /collab/session [get]
func (h *handlers) getSession(r *stdhttp.Request) (any, error) {
	id := r.URL.Query().Get("id")
	if id == "" {
		return nil, perr.InvalidArgf("missing id query param")
	}
	return h.svc.GetSession(r.Context(), id)
}

// @Summary List session participants with presence
// @Tags Collab
// @Produce json
// @Param session query string true "session id"
// @Success 200 {array} domain.UserPresence "ok"
// @Router /collab/participants [get]
func (h *handlers) participants(r *stdhttp.Request) (any, error) {
	id := r.URL.Query().Get("session")
	if id == "" {
		return nil, perr.InvalidArgf("missing session query param")
	}
	return h.svc.Participants(r.Context(), id)
}

// @Summary Fetch a document snapshot
// @Tags Collab
// @Produce json
// @Param id query string true "document id"
// @Success 200 {object} domain.Document "ok"
// @Router /collab/document [get]
func (h *handlers) getDocument(r *stdhttp.Request) (any, error) {
	id := r.URL.Query().Get("id")
	if id == "" {
		return nil, perr.InvalidArgf("missing id query param")
	}
	return h.svc.GetDocument(r.Context(), id)
}
