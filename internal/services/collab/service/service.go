// Package service implements the collaboration manager: the facade that
// composes the document store, session registry, and event fan-out and
// enforces the cross-component invariants
package service

import (
	"context"
	"sync"
	"time"

	"coedit/internal/core/ot"
	perr "coedit/internal/platform/errors"
	"coedit/internal/platform/logger"
	"coedit/internal/services/collab/broadcast"
	"coedit/internal/services/collab/domain"
	"coedit/internal/services/collab/store"
)

// Config controls the manager
type Config struct {
	// FanoutCapacity bounds each subscriber's event buffer
	FanoutCapacity int
	// HistoryLimit caps per-document transform history
	HistoryLimit int
	// SessionTTL closes sessions idle longer than this; zero disables the reaper
	SessionTTL time.Duration
	// ReapEvery is the reaper sweep interval
	ReapEvery time.Duration
}

// Manager implements domain.ManagerPort. It exclusively owns all documents,
// sessions, and fan-out channels; callers only ever receive snapshots or
// subscription handles
type Manager struct {
	cfg  Config
	docs *store.DocStore
	hub  *broadcast.Hub

	mu       sync.RWMutex
	sessions map[string]*session

	// sink observes every published event; set once during wiring,
	// before any traffic
	sink func(domain.Event)

	// now is a seam for tests
	now func() time.Time
}

// session is the live registry entry; never handed out
type session struct {
	mu           sync.Mutex
	id           string
	documentID   string
	participants map[string]domain.UserPresence
	operations   []ot.Operation
	version      uint64
	createdAt    time.Time
	lastActivity time.Time
}

var _ domain.ManagerPort = (*Manager)(nil)

// New constructs a Manager
func New(cfg Config) *Manager {
	if cfg.FanoutCapacity <= 0 {
		cfg.FanoutCapacity = 256
	}
	if cfg.ReapEvery <= 0 {
		cfg.ReapEvery = time.Minute
	}
	return &Manager{
		cfg:      cfg,
		docs:     store.New(store.Config{HistoryLimit: cfg.HistoryLimit}),
		hub:      broadcast.New(cfg.FanoutCapacity),
		sessions: make(map[string]*session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run starts the idle-session reaper and blocks until ctx is done
// no-op when SessionTTL is zero
func (m *Manager) Run(ctx context.Context) error {
	if m.cfg.SessionTTL <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	log := logger.Named("collab-reaper")
	ticker := time.NewTicker(m.cfg.ReapEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, id := range m.idleSessions() {
				if err := m.CloseSession(ctx, id); err == nil {
					log.Info().Str("session_id", id).Msg("reaped idle session")
				}
			}
		}
	}
}

// idleSessions lists sessions whose last activity is older than the TTL
func (m *Manager) idleSessions() []string {
	cutoff := m.now().Add(-m.cfg.SessionTTL)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastActivity.Before(cutoff)
		s.mu.Unlock()
		if idle {
			out = append(out, id)
		}
	}
	return out
}

// lookup returns the live session or SessionNotFound
func (m *Manager) lookup(sessionID string) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, perr.NotFoundf("session %s not found", sessionID)
	}
	return s, nil
}

// Stats reports live engine counters
func (m *Manager) Stats(context.Context) (domain.Stats, error) {
	m.mu.RLock()
	sessions := len(m.sessions)
	m.mu.RUnlock()
	return domain.Stats{
		Documents:   m.docs.Count(),
		Sessions:    sessions,
		Subscribers: m.hub.Subscribers(),
	}, nil
}

// Subscribe attaches a new event stream to the session
func (m *Manager) Subscribe(sessionID string) (domain.EventStream, error) {
	if _, err := m.lookup(sessionID); err != nil {
		return nil, err
	}
	return m.hub.Subscribe(sessionID), nil
}

// SetSink attaches a best-effort observer for every published event,
// used by cross-node relays. The sink must not block
func (m *Manager) SetSink(fn func(domain.Event)) { m.sink = fn }

// publish stamps and fans out an event; never blocks
func (m *Manager) publish(ev domain.Event) {
	if ev.At.IsZero() {
		ev.At = m.now()
	}
	m.hub.Publish(ev.SessionID, ev)
	if m.sink != nil {
		m.sink(ev)
	}
}
