// Package raw is the bootstrap env reader. The logger configures itself
// from it, so it must not import the logger or the full config package.
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a prefixed view over environment variables
type Conf struct{ prefix string }

// New returns the root view with no prefix
func New() Conf { return Conf{} }

// Prefix narrows the view, prefixes stack: New().Prefix("LOG_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) env(key string) string {
	return strings.TrimSpace(os.Getenv(c.prefix + key))
}

// Get returns the trimmed value, or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v := c.env(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1/true/yes as true, anything else set is false
func (c Conf) GetBool(key string, def bool) bool {
	v := strings.ToLower(c.env(key))
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "yes"
}

// GetInt parses a non-negative integer, falling back to def on anything else
func (c Conf) GetInt(key string, def int) int {
	v := c.env(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
