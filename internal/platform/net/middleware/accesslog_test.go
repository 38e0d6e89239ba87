package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coedit/internal/platform/net/middleware"

	"github.com/rs/zerolog"
)

// serve runs one request through the access log middleware and returns the
// recorder plus the decoded log line
func serve(t *testing.T, opt middleware.AccessLogOptions, next http.HandlerFunc, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	opt.Log = &log

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	middleware.AccessLogZerolog(opt)(next).ServeHTTP(rr, req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("access log is not one JSON line: %v (%q)", err, buf.String())
	}
	return rr, line
}

func TestAccessLog_RecordsRequestOutcome(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})

	rr, line := serve(t, middleware.AccessLogOptions{}, next, "/documents")

	if rr.Code != http.StatusCreated || rr.Body.String() != "created" {
		t.Fatalf("middleware altered the response: %d %q", rr.Code, rr.Body.String())
	}
	if line["level"] != "info" {
		t.Fatalf("expected info level, got %v", line["level"])
	}
	if line["method"] != "GET" || line["path"] != "/documents" {
		t.Fatalf("wrong request identity: %v %v", line["method"], line["path"])
	}
	if line["status"] != float64(201) {
		t.Fatalf("expected status 201, got %v", line["status"])
	}
	if line["bytes"] != float64(len("created")) {
		t.Fatalf("expected %d bytes, got %v", len("created"), line["bytes"])
	}
	if line["message"] != "http request" {
		t.Fatalf("unexpected message %v", line["message"])
	}
}

func TestAccessLog_SlowRequestWarns(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
	})

	_, line := serve(t, middleware.AccessLogOptions{Slow: time.Nanosecond}, next, "/sessions/s1/ops")

	if line["level"] != "warn" {
		t.Fatalf("expected warn level for a slow request, got %v", line["level"])
	}
}

func TestAccessLog_ImplicitStatusAndSplitWrites(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("part one "))
		_, _ = w.Write([]byte("part two"))
	})

	rr, line := serve(t, middleware.AccessLogOptions{}, next, "/presence")

	if rr.Body.String() != "part one part two" {
		t.Fatalf("writes did not pass through: %q", rr.Body.String())
	}
	if line["status"] != float64(200) {
		t.Fatalf("implicit status should log as 200, got %v", line["status"])
	}
	if line["bytes"] != float64(len("part one part two")) {
		t.Fatalf("bytes should sum every write, got %v", line["bytes"])
	}
}
