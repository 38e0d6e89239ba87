// Package testkit holds the small assertion and seam helpers shared by
// the platform test suites
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustPanic fails the test unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic, got none")
		}
	}()
	fn()
}

// MustContain fails the test unless haystack contains needle; the full
// haystack lands in a temp file so long log output stays readable
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	dump := filepath.Join(t.TempDir(), "testkit_output.txt")
	_ = os.WriteFile(dump, []byte(haystack), 0o600)
	t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, dump)
}
