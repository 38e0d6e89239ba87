package config

import (
	"testing"
	"time"

	kit "coedit/internal/platform/testkit"
)

func TestPrefixNesting(t *testing.T) {
	collab := New().Prefix("COLLAB_")
	t.Setenv("COLLAB_HISTORY_LIMIT", "64")
	if got := collab.MayInt("HISTORY_LIMIT", 0); got != 64 {
		t.Fatalf("prefixed lookup = %d, want 64", got)
	}

	nested := collab.Prefix("FANOUT_")
	t.Setenv("COLLAB_FANOUT_CAPACITY", "128")
	if got := nested.MayInt("CAPACITY", 0); got != 128 {
		t.Fatalf("nested lookup = %d, want 128", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  coedit ")
	if got := c.MustString("NAME"); got != "coedit" {
		t.Fatalf("MustString = %q, want trimmed value", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("ABSENT") })
}

func TestMustInt(t *testing.T) {
	c := New().Prefix("SVC_")
	t.Setenv("SVC_WORKERS", " 8 ")
	if got := c.MustInt("WORKERS"); got != 8 {
		t.Fatalf("MustInt = %d, want 8", got)
	}
	kit.MustPanic(t, func() { _ = c.MustInt("ABSENT") })
	t.Setenv("SVC_WORKERS", "eight")
	kit.MustPanic(t, func() { _ = c.MustInt("WORKERS") })
}

func TestMustDuration(t *testing.T) {
	c := New().Prefix("D_")
	t.Setenv("D_SESSION_TTL", " 30m ")
	if got := c.MustDuration("SESSION_TTL"); got != 30*time.Minute {
		t.Fatalf("MustDuration = %v", got)
	}
	t.Setenv("D_SESSION_TTL", "forever")
	kit.MustPanic(t, func() { _ = c.MustDuration("SESSION_TTL") })
}

func TestRequire(t *testing.T) {
	c := New().Prefix("REQ_")
	t.Setenv("REQ_DBURL", "postgres://localhost/coedit")
	t.Setenv("REQ_ADDR", "localhost:6379")
	c.Require("DBURL", "ADDR") // must not panic

	kit.MustPanic(t, func() { c.Require("DBURL", "ABSENT") })

	// whitespace-only counts as missing
	t.Setenv("REQ_WS", "   ")
	kit.MustPanic(t, func() { c.Require("WS") })
}

func TestMayAccessors(t *testing.T) {
	c := New().Prefix("M_")

	if got := c.MayString("ABSENT", "def"); got != "def" {
		t.Fatalf("MayString default = %q", got)
	}
	t.Setenv("M_CHANNEL", " collab.events ")
	if got := c.MayString("CHANNEL", "x"); got != "collab.events" {
		t.Fatalf("MayString = %q", got)
	}

	if got := c.MayInt("ABSENT", 9); got != 9 {
		t.Fatalf("MayInt default = %d", got)
	}
	t.Setenv("M_QUEUE", " 7 ")
	if got := c.MayInt("QUEUE", 0); got != 7 {
		t.Fatalf("MayInt = %d", got)
	}
	t.Setenv("M_QUEUE", "many")
	if got := c.MayInt("QUEUE", 3); got != 3 {
		t.Fatalf("MayInt invalid should fall back, got %d", got)
	}

	if !c.MayBool("ABSENT", true) {
		t.Fatal("MayBool default")
	}
	t.Setenv("M_SWAGGER", "true")
	if !c.MayBool("SWAGGER", false) {
		t.Fatal("MayBool parsed")
	}
	t.Setenv("M_SWAGGER", "nope")
	if c.MayBool("SWAGGER", false) {
		t.Fatal("MayBool invalid should fall back")
	}

	if got := c.MayDuration("ABSENT", 5*time.Second); got != 5*time.Second {
		t.Fatalf("MayDuration default = %v", got)
	}
	t.Setenv("M_REAP", "150ms")
	if got := c.MayDuration("REAP", time.Second); got != 150*time.Millisecond {
		t.Fatalf("MayDuration = %v", got)
	}
	t.Setenv("M_REAP", "soon")
	if got := c.MayDuration("REAP", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration invalid should fall back, got %v", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")

	def := []string{"https://app.example.com"}
	if got := c.MayCSV("ORIGINS", def); len(got) != 1 || got[0] != def[0] {
		t.Fatalf("default: %#v", got)
	}

	t.Setenv("CSV_ORIGINS", " https://a.test, https://b.test , ,https://c.test ,, ")
	got := c.MayCSV("ORIGINS", nil)
	want := []string{"https://a.test", "https://b.test", "https://c.test"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %#v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// separators with nothing between them keep the default
	t.Setenv("CSV_ORIGINS", " , ,  ,")
	if got := c.MayCSV("ORIGINS", def); len(got) != 1 || got[0] != def[0] {
		t.Fatalf("all-empty: %#v", got)
	}
}
