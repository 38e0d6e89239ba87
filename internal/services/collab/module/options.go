package module

import (
	"time"

	"coedit/internal/platform/config"
)

// Options controls the collaboration engine
type Options struct {
	FanoutCapacity int
	HistoryLimit   int
	SessionTTL     time.Duration
	ReapEvery      time.Duration
}

// FromConfig reads with COLLAB_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("COLLAB_")
	return Options{
		FanoutCapacity: c.MayInt("FANOUT_CAPACITY", 256),
		HistoryLimit:   c.MayInt("HISTORY_LIMIT", 1024),
		SessionTTL:     c.MayDuration("SESSION_TTL", 30*time.Minute),
		ReapEvery:      c.MayDuration("REAP_EVERY", time.Minute),
	}
}
