// Package ws provides the realtime WebSocket transport for collaboration
// sessions. One connection maps to one user in one session: connecting joins
// the session and subscribes to its events, disconnecting leaves it
package ws

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"coedit/internal/core/ot"
	perr "coedit/internal/platform/errors"
	"coedit/internal/platform/logger"
	pnet "coedit/internal/platform/net"

	"coedit/internal/modkit/httpkit"
	"coedit/internal/services/collab/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameBytes = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// cross-origin policy is enforced by the CORS middleware upstream
	CheckOrigin: func(*stdhttp.Request) bool { return true },
}

// Register mounts the websocket endpoint on the given router
func Register(r httpkit.Router, svc domain.ManagerPort) {
	g := &gateway{svc: svc}
	r.Get("/ws", g.serve)
}

type gateway struct{ svc domain.ManagerPort }

// clientFrame is the tagged message clients send over the socket
type clientFrame struct {
	Type string `json:"type"`

	// operation
	Operation   *ot.Operation `json:"operation,omitempty"`
	BaseVersion *uint64       `json:"base_version,omitempty"`

	// presence / typing
	Presence *domain.UserPresence `json:"presence,omitempty"`
	Typing   *bool                `json:"typing,omitempty"`

	// comments
	Comment   *domain.CommentInput `json:"comment,omitempty"`
	Reply     *domain.ReplyInput   `json:"reply,omitempty"`
	CommentID string               `json:"comment_id,omitempty"`
	Content   string               `json:"content,omitempty"`
}

// serverFrame is what the gateway sends back outside the event stream
type serverFrame struct {
	Type       string           `json:"type"`
	NewVersion uint64           `json:"new_version,omitempty"`
	Document   *domain.Document `json:"document,omitempty"`
	Code       perr.ErrorCode   `json:"code,omitempty"`
	Error      string           `json:"error,omitempty"`
}

func (g *gateway) serve(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	sessionID := r.URL.Query().Get("session")
	userID := r.URL.Query().Get("user")
	if sessionID == "" || userID == "" {
		stdhttp.Error(w, "session and user query params are required", stdhttp.StatusBadRequest)
		return
	}

	// the ids ride on the context so logger.C stamps every line below
	ctx := pnet.WithUser(pnet.WithRequest(r.Context(), "", sessionID), userID)
	log := *logger.C(ctx)

	if _, err := g.svc.JoinSession(ctx, sessionID, userID); err != nil {
		stdhttp.Error(w, err.Error(), perr.HTTPStatus(err))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	stream, err := g.svc.Subscribe(sessionID)
	if err != nil {
		_ = conn.Close()
		return
	}

	c := &client{
		conn:      conn,
		svc:       g.svc,
		stream:    stream,
		sessionID: sessionID,
		userID:    userID,
		send:      make(chan serverFrame, 16),
		log:       log,
	}

	log.Info().Msg("websocket connected")
	go c.writePump()
	c.readPump()

	stream.Close()
	// leaving on disconnect keeps the participant set honest; the user can
	// reconnect and join again
	if err := g.svc.LeaveSession(context.WithoutCancel(ctx), sessionID, userID); err != nil {
		log.Warn().Err(err).Msg("leave after disconnect failed")
	}
	log.Info().Msg("websocket disconnected")
}

type client struct {
	conn      *websocket.Conn
	svc       domain.ManagerPort
	stream    domain.EventStream
	sessionID string
	userID    string
	send      chan serverFrame
	log       logger.Logger
}

// readPump consumes client frames until the socket dies
func (c *client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxFrameBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.reply(errorFrame(perr.InvalidArgf("malformed frame: %v", err)))
			continue
		}
		c.handle(frame)
	}
}

// writePump serializes all socket writes: stream events, direct replies,
// and keepalive pings
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.stream.Events():
			if !ok {
				// session closed; tell the client before hanging up
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case f := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) handle(frame clientFrame) {
	ctx := context.Background()

	switch frame.Type {
	case "operation":
		if frame.Operation == nil {
			c.reply(errorFrame(perr.InvalidArgf("operation frame missing operation")))
			return
		}
		op := *frame.Operation
		// the socket identity wins over whatever the frame claims
		op.Author = c.userID
		v, err := c.svc.ApplyOperation(ctx, c.sessionID, op, frame.BaseVersion)
		if err != nil {
			c.reply(errorFrame(err))
			return
		}
		c.reply(serverFrame{Type: "ack", NewVersion: v})

	case "presence":
		if frame.Presence == nil {
			c.reply(errorFrame(perr.InvalidArgf("presence frame missing presence")))
			return
		}
		p := *frame.Presence
		p.UserID = c.userID
		if err := c.svc.UpdatePresence(ctx, c.sessionID, p); err != nil {
			c.reply(errorFrame(err))
		}

	case "typing":
		typing := frame.Typing != nil && *frame.Typing
		if err := c.svc.SetTyping(ctx, c.sessionID, c.userID, typing); err != nil {
			c.reply(errorFrame(err))
		}

	case "comment_add":
		if frame.Comment == nil {
			c.reply(errorFrame(perr.InvalidArgf("comment_add frame missing comment")))
			return
		}
		in := *frame.Comment
		in.AuthorID = c.userID
		if _, err := c.svc.AddComment(ctx, c.sessionID, in); err != nil {
			c.reply(errorFrame(err))
		}

	case "comment_update":
		if _, err := c.svc.UpdateComment(ctx, c.sessionID, frame.CommentID, frame.Content); err != nil {
			c.reply(errorFrame(err))
		}

	case "comment_resolve":
		if _, err := c.svc.ResolveComment(ctx, c.sessionID, frame.CommentID); err != nil {
			c.reply(errorFrame(err))
		}

	case "comment_reply":
		if frame.Reply == nil {
			c.reply(errorFrame(perr.InvalidArgf("comment_reply frame missing reply")))
			return
		}
		in := *frame.Reply
		in.AuthorID = c.userID
		if _, err := c.svc.AddReply(ctx, c.sessionID, frame.CommentID, in); err != nil {
			c.reply(errorFrame(err))
		}

	case "sync":
		doc, err := c.svc.Sync(ctx, c.sessionID)
		if err != nil {
			c.reply(errorFrame(err))
			return
		}
		c.reply(serverFrame{Type: "document", Document: &doc})

	default:
		c.reply(errorFrame(perr.InvalidArgf("unknown frame type %q", frame.Type)))
	}
}

// reply queues a direct frame; a full queue drops it rather than blocking
// the read loop, the client can always resync
func (c *client) reply(f serverFrame) {
	select {
	case c.send <- f:
	default:
	}
}

func errorFrame(err error) serverFrame {
	return serverFrame{
		Type:  "error",
		Code:  perr.CodeOf(err),
		Error: err.Error(),
	}
}
