// Package strings holds the small defaulting and path helpers used while
// wiring modules together
package strings

import std "strings"

// IfEmpty picks def when in has no elements
func IfEmpty[T any](in, def []T) []T {
	if len(in) > 0 {
		return in
	}
	return def
}

// MustString panics when s is blank; name labels the missing value in the
// panic message
func MustString(s, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix canonicalises a mount path: one leading slash, no trailing
// slash. A value that collapses to bare "/" panics, modules always mount
// below the root.
func MustPrefix(s string) string {
	trimmed := std.Trim(std.TrimSpace(s), " /")
	if trimmed == "" {
		panic("root path is required")
	}
	return "/" + trimmed
}
