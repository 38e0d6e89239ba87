package middleware

import (
	"net/http"
	"time"

	"coedit/internal/platform/logger"
)

// AccessLogOptions configures the access log middleware
type AccessLogOptions struct {
	// Slow promotes requests that take at least this long to warn level,
	// zero keeps everything at info
	Slow time.Duration

	// Log overrides the request-scoped logger, nil uses logger.C
	Log *logger.Logger
}

// loggedWriter records the status code and payload size as the handler writes
type loggedWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (lw *loggedWriter) WriteHeader(code int) {
	lw.status = code
	lw.ResponseWriter.WriteHeader(code)
}

func (lw *loggedWriter) Write(b []byte) (int, error) {
	n, err := lw.ResponseWriter.Write(b)
	lw.written += n
	return n, err
}

// AccessLogZerolog emits one structured line per request with method, path,
// status, bytes written and elapsed time
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lw := &loggedWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(lw, r)
			elapsed := time.Since(start)

			log := opt.Log
			if log == nil {
				log = logger.C(r.Context())
			}
			evt := log.Info()
			if opt.Slow > 0 && elapsed >= opt.Slow {
				evt = log.Warn()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", lw.status).
				Int("bytes", lw.written).
				Dur("elapsed", elapsed).
				Msg("http request")
		})
	}
}
