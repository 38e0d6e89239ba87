package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"coedit/internal/platform/config"
	"coedit/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// drainTimeout bounds the graceful drain triggered by context cancellation
const drainTimeout = 10 * time.Second

// Server couples a chi mux with a stdlib http.Server
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *stdhttp.Server
}

// NewServer builds the gateway server; the address comes from API_PORT
// under the caller's config prefix. opts see the raw mux before any routes
// exist.
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	mux := chi.NewRouter()
	for _, o := range opts {
		o(mux)
	}
	addr := cfg.MayString("API_PORT", ":4000")
	return &Server{
		addr: addr,
		mux:  mux,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router exposes the mux behind the router seam
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr reports the configured listen address
func (s *Server) Addr() string { return s.addr }

// Run serves until the listener fails, Shutdown is called, or ctx is
// cancelled; cancellation drains in-flight requests before returning
func (s *Server) Run(ctx context.Context) error {
	logger.Named("http").Info().Str("addr", s.addr).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		drain, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		return s.srv.Shutdown(drain)
	}
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
