package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	pnet "coedit/internal/platform/net"
	kit "coedit/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"  ERROR  ", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"", zerolog.DebugLevel},
		{"verbose", zerolog.DebugLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestBuild_FieldsAndFormat(t *testing.T) {
	var buf bytes.Buffer
	log := build(Options{
		Level:        "info",
		Format:       "json",
		Service:      "coedit",
		Component:    "core",
		Writer:       &buf,
		StaticFields: map[string]string{"region": "test"},
	})

	log.Info().Str("doc", "d1").Msg("hello")
	out := buf.String()

	kit.MustContain(t, out, `"service":"coedit"`)
	kit.MustContain(t, out, `"component":"core"`)
	kit.MustContain(t, out, `"region":"test"`)
	kit.MustContain(t, out, `"doc":"d1"`)
	kit.MustContain(t, out, "hello")

	// level gate: debug lines must be dropped
	buf.Reset()
	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line leaked through info level: %q", buf.String())
	}
}

func TestBuild_ConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	log := build(Options{Level: "debug", Format: "console", Writer: &buf})
	log.Info().Msg("console-line")
	if !strings.Contains(buf.String(), "console-line") {
		t.Fatalf("console output missing message: %q", buf.String())
	}
}

func TestBuild_Sampling(t *testing.T) {
	var buf bytes.Buffer
	log := build(Options{Level: "debug", Format: "json", Writer: &buf, SampleEvery: 2})

	for i := 0; i < 4; i++ {
		log.Info().Msg("tick")
	}
	if got := strings.Count(buf.String(), "tick"); got != 2 {
		t.Fatalf("sampler emitted %d of 4 lines, want 2", got)
	}
}

func TestC_EnrichesFromRequestContext(t *testing.T) {
	ctx := pnet.WithRequest(context.Background(), "req-9", "sess-42")
	ctx = pnet.WithUser(ctx, "u-7")

	var buf bytes.Buffer
	base := build(Options{Level: "debug", Format: "json", Writer: &buf})
	snapshotRoot(t, &base)

	C(ctx).Info().Msg("scoped")
	out := buf.String()

	kit.MustContain(t, out, `"request_id":"req-9"`)
	kit.MustContain(t, out, `"session_id":"sess-42"`)
	kit.MustContain(t, out, `"user_id":"u-7"`)
}

func TestC_EmptyContextAddsNothing(t *testing.T) {
	var buf bytes.Buffer
	base := build(Options{Level: "debug", Format: "json", Writer: &buf})
	snapshotRoot(t, &base)

	C(context.Background()).Info().Msg("bare")
	out := buf.String()
	if strings.Contains(out, "request_id") || strings.Contains(out, "session_id") {
		t.Fatalf("unexpected scoped fields: %q", out)
	}
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	base := build(Options{Level: "debug", Format: "json", Writer: &buf})
	snapshotRoot(t, &base)

	Named("reaper").Info().Msg("swept")
	kit.MustContain(t, buf.String(), `"component":"reaper"`)

	if Named("") != Get() {
		t.Fatal("empty component must return the root logger")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SERVICE", "coedit")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" {
		t.Fatalf("level/format not lowercased: %+v", opt)
	}
	if opt.Service != "coedit" || !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("env mapping mismatch: %+v", opt)
	}
}

// snapshotRoot swaps the process root logger for the test and restores it after
func snapshotRoot(t *testing.T, l *Logger) {
	t.Helper()
	prev := root.Load()
	prevInit := inited.Load()
	root.Store(l)
	inited.Store(true)
	t.Cleanup(func() {
		root.Store(prev)
		inited.Store(prevInit)
	})
}
