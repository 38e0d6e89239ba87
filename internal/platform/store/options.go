package store

import "coedit/internal/platform/logger"

// Option adjusts a Store before its backends open
type Option func(*Store) error

// WithLogger routes subclient logging through log instead of the
// zero logger Open would otherwise normalize in
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
