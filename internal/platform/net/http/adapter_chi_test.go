package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func hit(t *testing.T, r Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func echo(body string) Handler {
	return func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		_, _ = w.Write([]byte(body))
	}
}

func status(code int) Handler {
	return func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(code) }
}

func stamp(name string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			w.Header().Set(name, "1")
			next.ServeHTTP(w, req)
		})
	}
}

func TestAdaptChi_MiddlewareScoping(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())
	r.Use(stamp("X-Root"))
	r.Get("/documents", echo("all"))

	r.Group(func(gr Router) {
		gr.Use(stamp("X-Group"))
		if gr.Mux() == nil {
			t.Fatal("group Mux() is nil")
		}
		gr.Get("/presence", echo("who"))
	})

	r.Route("/sessions", func(sr Router) {
		sr.Use(stamp("X-Scope"))
		sr.Get("/active", echo("live"))
	})

	rec := hit(t, r, "GET", "/documents")
	if rec.Body.String() != "all" || rec.Header().Get("X-Root") != "1" {
		t.Fatalf("root route: body=%q headers=%v", rec.Body.String(), rec.Header())
	}
	if rec.Header().Get("X-Group") != "" {
		t.Fatal("group middleware leaked to root route")
	}

	rec = hit(t, r, "GET", "/presence")
	if rec.Header().Get("X-Root") != "1" || rec.Header().Get("X-Group") != "1" {
		t.Fatalf("group route headers=%v", rec.Header())
	}

	rec = hit(t, r, "GET", "/sessions/active")
	if rec.Body.String() != "live" || rec.Header().Get("X-Scope") != "1" {
		t.Fatalf("scoped route: body=%q headers=%v", rec.Body.String(), rec.Header())
	}
}

func TestAdaptChi_VerbCoverage(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())

	r.Post("/sessions", status(201))
	r.Put("/sessions/s1", status(200))
	r.Patch("/sessions/s1", status(200))
	r.Delete("/sessions/s1", status(204))
	r.Head("/sessions/s1", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.Header().Set("X-Exists", "1")
	})
	r.Options("/sessions", status(204))
	r.Handle("/raw", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		_, _ = w.Write([]byte("raw"))
	}))

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{"POST", "/sessions", 201},
		{"PUT", "/sessions/s1", 200},
		{"PATCH", "/sessions/s1", 200},
		{"DELETE", "/sessions/s1", 204},
		{"OPTIONS", "/sessions", 204},
	}
	for _, tc := range cases {
		if rec := hit(t, r, tc.method, tc.path); rec.Code != tc.want {
			t.Fatalf("%s %s = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}

	if rec := hit(t, r, "HEAD", "/sessions/s1"); rec.Header().Get("X-Exists") != "1" || rec.Body.Len() != 0 {
		t.Fatalf("HEAD: headers=%v body=%q", rec.Header(), rec.Body.String())
	}
	if rec := hit(t, r, "GET", "/raw"); rec.Body.String() != "raw" {
		t.Fatalf("Handle: body=%q", rec.Body.String())
	}
}

func TestAdaptChi_SubrouterNesting(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())

	// subrouters support all the same verbs and can nest further
	r.Route("/api", func(api Router) {
		api.Post("/sessions", status(201))
		api.Delete("/sessions/{id}", status(204))
		api.Head("/ping", func(stdhttp.ResponseWriter, *stdhttp.Request) {})
		api.Options("/ping", status(204))
		api.Handle("/std", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
			_, _ = w.Write([]byte("std"))
		}))

		api.Group(func(g Router) {
			g.Get("/comments", echo("threads"))
		})

		api.Route("/v1", func(v1 Router) {
			if v1.Mux() == nil {
				t.Fatal("nested Mux() is nil")
			}
			v1.Get("/document", echo("content"))
			v1.Put("/document", status(200))
			v1.Patch("/document", status(200))
		})
	})

	if rec := hit(t, r, "POST", "/api/sessions"); rec.Code != 201 {
		t.Fatalf("POST /api/sessions = %d", rec.Code)
	}
	if rec := hit(t, r, "DELETE", "/api/sessions/s9"); rec.Code != 204 {
		t.Fatalf("DELETE = %d", rec.Code)
	}
	if rec := hit(t, r, "GET", "/api/comments"); rec.Body.String() != "threads" {
		t.Fatalf("group under route: %q", rec.Body.String())
	}
	if rec := hit(t, r, "GET", "/api/v1/document"); rec.Body.String() != "content" {
		t.Fatalf("nested route: %q", rec.Body.String())
	}
	if rec := hit(t, r, "PUT", "/api/v1/document"); rec.Code != 200 {
		t.Fatalf("nested PUT = %d", rec.Code)
	}
	if rec := hit(t, r, "PATCH", "/api/v1/document"); rec.Code != 200 {
		t.Fatalf("nested PATCH = %d", rec.Code)
	}
	if rec := hit(t, r, "GET", "/api/std"); rec.Body.String() != "std" {
		t.Fatalf("sub Handle: %q", rec.Body.String())
	}
	if rec := hit(t, r, "OPTIONS", "/api/ping"); rec.Code != 204 {
		t.Fatalf("sub OPTIONS = %d", rec.Code)
	}
}
