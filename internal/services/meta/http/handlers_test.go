package http_test

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coedit/internal/modkit/module"
	"coedit/internal/platform/config"
	phttp "coedit/internal/platform/net/http"
	collabdomain "coedit/internal/services/collab/domain"
	metahttp "coedit/internal/services/meta/http"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(stdctx.Context) error { return p.err }

type fakeStats struct{ s collabdomain.Stats }

func (f fakeStats) Stats(stdctx.Context) (collabdomain.Stats, error) { return f.s, nil }

func mountMeta(t *testing.T, d metahttp.Deps) phttp.Router {
	t.Helper()
	r := phttp.NewServer(config.New()).Router()
	metahttp.Register(r, d)
	return r
}

func metaGet(t *testing.T, r phttp.Router, path string) phttp.Envelope {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v (%q)", err, rec.Body.String())
	}
	if rec.Code != env.StatusCode {
		t.Fatalf("http status %d disagrees with envelope %d", rec.Code, env.StatusCode)
	}
	return env
}

func TestHealth(t *testing.T) {
	started := time.Now().Add(-time.Hour)
	r := mountMeta(t, metahttp.Deps{ServiceName: "coedit-gateway", StartedAt: started})

	env := metaGet(t, r, "/health")
	if env.StatusCode != http.StatusOK {
		t.Fatalf("health = %d", env.StatusCode)
	}
	data := env.Data.(map[string]any)
	if data["ok"] != true || data["service"] != "coedit-gateway" {
		t.Fatalf("health payload = %v", data)
	}
}

func TestReady_ChecksBackends(t *testing.T) {
	cases := []struct {
		name    string
		pg, rds any
		want    string
	}{
		{"no backends configured", nil, nil, "ok"},
		{"both healthy", fakePinger{}, fakePinger{}, "ok"},
		{"postgres down", fakePinger{err: errors.New("refused")}, fakePinger{}, "fail"},
		{"seam without ping", struct{}{}, nil, "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := mountMeta(t, metahttp.Deps{PG: tc.pg, RDS: tc.rds})

			env := metaGet(t, r, "/ready")
			data := env.Data.(map[string]any)
			if data["status"] != tc.want {
				t.Fatalf("ready status = %v, want %s", data["status"], tc.want)
			}
			if n := len(data["checks"].([]any)); n != 2 {
				t.Fatalf("expected a check per backend, got %d", n)
			}
		})
	}
}

func TestReady_ReportsFailureDetail(t *testing.T) {
	r := mountMeta(t, metahttp.Deps{PG: fakePinger{err: errors.New("pool exhausted")}})

	env := metaGet(t, r, "/ready")
	checks := env.Data.(map[string]any)["checks"].([]any)
	pg := checks[0].(map[string]any)
	if pg["name"] != "pg" || pg["status"] != "fail" || pg["error"] != "pool exhausted" {
		t.Fatalf("pg check = %v", pg)
	}
}

func TestVersion(t *testing.T) {
	r := mountMeta(t, metahttp.Deps{})

	env := metaGet(t, r, "/version")
	data := env.Data.(map[string]any)
	if data["service"] != "coedit-gateway" || data["version"] == "" {
		t.Fatalf("version payload = %v", data)
	}
}

func TestService_ListsRegisteredModules(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)
	module.Register("collab", nil)
	module.Register("meta", nil)

	started := time.Now().Add(-90 * time.Second)
	r := mountMeta(t, metahttp.Deps{ServiceName: "coedit-gateway", StartedAt: started})

	env := metaGet(t, r, "/service")
	data := env.Data.(map[string]any)
	if data["name"] != "coedit-gateway" {
		t.Fatalf("service payload = %v", data)
	}
	if up := data["uptime"].(float64); up < 89 || up > 120 {
		t.Fatalf("uptime = %v", up)
	}
	mods := data["modules"].([]any)
	if len(mods) != 2 || mods[0] != "collab" || mods[1] != "meta" {
		t.Fatalf("modules = %v", mods)
	}
}

func TestStats(t *testing.T) {
	want := collabdomain.Stats{}
	r := mountMeta(t, metahttp.Deps{Stats: fakeStats{s: want}})

	if env := metaGet(t, r, "/stats"); env.StatusCode != http.StatusOK {
		t.Fatalf("stats = %d", env.StatusCode)
	}

	// absent source answers with zero counters instead of an error
	r = mountMeta(t, metahttp.Deps{})
	if env := metaGet(t, r, "/stats"); env.StatusCode != http.StatusOK {
		t.Fatalf("stats without source = %d", env.StatusCode)
	}
}
