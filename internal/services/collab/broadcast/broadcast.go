// Package broadcast implements per-session multi-consumer event fan-out
// with bounded buffering and a lossy drop-oldest slow-consumer policy.
// Publication never blocks the publisher; a subscriber that falls behind
// receives a synthesized Lagged event carrying the drop count
package broadcast

import (
	"sync"
	"time"

	"coedit/internal/services/collab/domain"
)

// Hub owns one broadcast group per session id
type Hub struct {
	capacity int

	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

// New constructs a Hub; capacity bounds each subscriber's buffer
func New(capacity int) *Hub {
	if capacity <= 0 {
		capacity = 256
	}
	return &Hub{capacity: capacity, subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a new consumer for the session's events
func (h *Hub) Subscribe(sessionID string) *Subscription {
	sub := &Subscription{
		hub:       h,
		sessionID: sessionID,
		capacity:  h.capacity,
		notify:    make(chan struct{}, 1),
		out:       make(chan domain.Event),
		done:      make(chan struct{}),
	}
	h.mu.Lock()
	group := h.subs[sessionID]
	if group == nil {
		group = make(map[*Subscription]struct{})
		h.subs[sessionID] = group
	}
	group[sub] = struct{}{}
	h.mu.Unlock()

	go sub.pump()
	return sub
}

// Publish fans ev out to every live subscriber of the session without
// blocking; overflowing buffers drop their oldest event
func (h *Hub) Publish(sessionID string, ev domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[sessionID] {
		sub.push(ev)
	}
}

// DropSession closes every subscription for the session
func (h *Hub) DropSession(sessionID string) {
	h.mu.Lock()
	group := h.subs[sessionID]
	delete(h.subs, sessionID)
	h.mu.Unlock()
	for sub := range group {
		sub.shutdown()
	}
}

// Subscribers returns the total live subscription count
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, group := range h.subs {
		n += len(group)
	}
	return n
}

// remove detaches sub from its group
func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	if group, ok := h.subs[sub.sessionID]; ok {
		delete(group, sub)
		if len(group) == 0 {
			delete(h.subs, sub.sessionID)
		}
	}
	h.mu.Unlock()
}

// Subscription is a single consumer's handle; it satisfies domain.EventStream
type Subscription struct {
	hub       *Hub
	sessionID string
	capacity  int

	mu      sync.Mutex
	buf     []domain.Event // FIFO, oldest first
	dropped uint64
	closed  bool

	notify chan struct{}
	out    chan domain.Event
	done   chan struct{}

	closeOnce sync.Once
}

var _ domain.EventStream = (*Subscription)(nil)

// Events returns the delivery channel; it is closed when the subscription
// ends. A lagged consumer sees one EventLagged before delivery resumes from
// the oldest retained event
func (s *Subscription) Events() <-chan domain.Event { return s.out }

// Close detaches the subscription and releases its buffer
func (s *Subscription) Close() {
	s.hub.remove(s)
	s.shutdown()
}

func (s *Subscription) shutdown() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
	})
}

// push appends ev to the ring, evicting the oldest entry when full
func (s *Subscription) push(ev domain.Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if len(s.buf) >= s.capacity {
		s.buf = s.buf[1:]
		s.dropped++
	}
	s.buf = append(s.buf, ev)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// pump drains the buffer into the unbuffered out channel, prefixing a
// Lagged marker whenever drops accumulated since the last delivery
func (s *Subscription) pump() {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case <-s.notify:
		}
		for {
			s.mu.Lock()
			if s.dropped > 0 {
				n := s.dropped
				s.dropped = 0
				s.mu.Unlock()
				if !s.deliver(domain.Event{
					Kind:      domain.EventLagged,
					SessionID: s.sessionID,
					Count:     n,
					At:        time.Now().UTC(),
				}) {
					return
				}
				continue
			}
			if len(s.buf) == 0 {
				s.mu.Unlock()
				break
			}
			ev := s.buf[0]
			s.buf = s.buf[1:]
			s.mu.Unlock()
			if !s.deliver(ev) {
				return
			}
		}
	}
}

// deliver blocks on the consumer but never on the publisher; it returns
// false when the subscription closed mid-send
func (s *Subscription) deliver(ev domain.Event) bool {
	select {
	case s.out <- ev:
		return true
	case <-s.done:
		return false
	}
}
