package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"coedit/internal/platform/net/middleware"
)

// CommonStack returns the baseline middleware slice for the versioned API.
// An empty origins list allows every origin; compose with per-module
// middleware in main as needed
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability: structured access log, slow requests at warn
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 2 * time.Second}),

		// cross-origin
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}
