// Package config reads configuration from prefixed environment variables.
// Must* accessors panic through the logger for values the service cannot
// start without; May* accessors fall back to a default.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"coedit/internal/platform/logger"
)

// Conf is a prefixed view over the environment, e.g. Prefix("CORE_GATEWAY_")
type Conf struct{ prefix string }

// New returns the root view with no prefix
func New() Conf { return Conf{} }

// Prefix narrows the view; prefixes stack
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// lookup returns the trimmed value and whether it was non-empty
func (c Conf) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.prefix + key))
	return v, v != ""
}

func (c Conf) missing(key string) {
	logger.Get().Panic().Str("key", c.prefix+key).Msg("missing required env")
}

// must parses a required value, panicking on absence or bad input
func must[T any](c Conf, key, want string, parse func(string) (T, error)) T {
	s, ok := c.lookup(key)
	if !ok {
		c.missing(key)
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Panic().
			Str("key", c.prefix+key).
			Str("value", s).
			Str("want", want).
			Msg("invalid env value")
	}
	return v
}

// may parses an optional value, falling back to def on absence or bad input
func may[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().
			Str("key", c.prefix+key).
			Str("value", s).
			Str("kind", kind).
			Msg("invalid env value; using default")
		return def
	}
	return v
}

// MustString panics when key is missing or blank
func (c Conf) MustString(key string) string {
	v, ok := c.lookup(key)
	if !ok {
		c.missing(key)
	}
	return v
}

// MustInt panics when key is missing or not an integer
func (c Conf) MustInt(key string) int {
	return must(c, key, "integer", strconv.Atoi)
}

// MustDuration panics when key is missing or not a duration like 250ms or 2s
func (c Conf) MustDuration(key string) time.Duration {
	return must(c, key, "duration (e.g., 250ms, 2s, 1h)", time.ParseDuration)
}

// Require panics on the first missing key
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		if _, ok := c.lookup(k); !ok {
			c.missing(k)
		}
	}
}

// MayString returns def when key is missing or blank
func (c Conf) MayString(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// MayInt returns def when key is missing or not an integer
func (c Conf) MayInt(key string, def int) int {
	return may(c, key, def, "int", strconv.Atoi)
}

// MayBool returns def when key is missing or not a bool
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, def, "bool", strconv.ParseBool)
}

// MayDuration returns def when key is missing or not a duration
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, "duration", time.ParseDuration)
}

// MayCSV splits a comma-separated value, dropping empty entries; a value
// that is all separators counts as missing
func (c Conf) MayCSV(key string, def []string) []string {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
