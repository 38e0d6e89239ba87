// Package service implements the cross-node event relay: collaboration
// events are mirrored onto a redis channel per session so gateways on other
// nodes can follow along. Delivery is best effort; a full queue drops the
// event rather than slowing the publisher
package service

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"coedit/internal/platform/logger"
	"coedit/internal/platform/store"
	"coedit/internal/services/collab/domain"
)

// Config controls the relay
type Config struct {
	// ChannelPrefix is joined with the session id to form the channel name
	ChannelPrefix string
	// QueueSize bounds the outbound buffer between publisher and worker
	QueueSize int
}

// Service buffers events and publishes them to redis
type Service struct {
	cfg     Config
	rds     store.Redis
	queue   chan domain.Event
	dropped atomic.Uint64
}

// New constructs the relay. rds must be non-nil
func New(rds store.Redis, cfg Config) *Service {
	if cfg.ChannelPrefix == "" {
		cfg.ChannelPrefix = "collab.events"
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	return &Service{
		cfg:   cfg,
		rds:   rds,
		queue: make(chan domain.Event, cfg.QueueSize),
	}
}

// Offer enqueues an event for relay without blocking the caller
func (s *Service) Offer(ev domain.Event) {
	select {
	case s.queue <- ev:
	default:
		s.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded due to backpressure
func (s *Service) Dropped() uint64 { return s.dropped.Load() }

// Run drains the queue into redis until ctx is done
func (s *Service) Run(ctx context.Context) error {
	log := logger.Named("relay")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.queue:
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Error().Err(err).Msg("event marshal failed")
				continue
			}
			channel := s.cfg.ChannelPrefix + "." + ev.SessionID
			if err := s.rds.Publish(ctx, channel, payload); err != nil {
				log.Warn().Err(err).Str("channel", channel).Msg("redis publish failed")
			}
		}
	}
}
