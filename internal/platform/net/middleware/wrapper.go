// Package middleware wraps the chi middleware stack behind project types so
// callers never import chi directly
package middleware

import (
	"net/http"
	"time"

	pstrings "coedit/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the stdlib-shaped middleware signature the router accepts
type Middleware = func(http.Handler) http.Handler

// RequestID assigns a fresh X-Request-ID or propagates the caller's one
func RequestID() Middleware { return chimw.RequestID }

// RealIP rewrites RemoteAddr from the X-Forwarded-For / X-Real-IP headers
func RealIP() Middleware { return chimw.RealIP }

// Timeout cancels the request context once d has elapsed
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// NoCache stamps responses with cache-defeating headers
func NoCache() Middleware { return chimw.NoCache }

// Compress negotiates response compression at the given flate level
func Compress(level int) Middleware {
	c := chimw.NewCompressor(level)
	return c.Handler
}

// RedirectSlashes sends /sessions/ to /sessions with a 301
func RedirectSlashes() Middleware { return chimw.RedirectSlashes }

// StripSlashes drops a trailing slash before routing
func StripSlashes() Middleware { return chimw.StripSlashes }

// Heartbeat answers GET path with a bare 200 for load balancer checks
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// fallbacks applied when a CORSOptions field is left empty
var (
	corsDefaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsDefaultHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
)

// CORSOptions is the narrow slice of go-chi/cors the gateway configures
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS builds the cors handler, filling empty method and header lists with
// the project defaults
func CORS(o CORSOptions) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, corsDefaultMethods),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, corsDefaultHeaders),
		ExposedHeaders:   o.ExposedHeaders,
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
