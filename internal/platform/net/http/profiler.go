package http

import (
	stdhttp "net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler exposes the pprof mux under prefix when enabled; a disabled
// gateway never routes the paths at all
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	pprof := stdhttp.StripPrefix(prefix, chimw.Profiler())
	r.Handle(prefix, pprof)
	r.Handle(prefix+"/*", pprof)
}
