package http

import "net/http"

// Handler is the stdlib-shaped handler signature used across the project
type Handler = func(http.ResponseWriter, *http.Request)

// Router is the minimal mounting surface modules see; the chi mux stays an
// implementation detail behind it
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Put(path string, h Handler)
	Patch(path string, h Handler)
	Delete(path string, h Handler)
	Head(path string, h Handler)
	Options(path string, h Handler)

	// Handle mounts a raw http.Handler, used for websockets and pprof
	Handle(path string, h http.Handler)

	// Use appends middleware; chi requires it before any route is added
	Use(mw ...func(http.Handler) http.Handler)

	// Group shares middleware across a set of routes, Route nests them
	// under a pattern
	Group(fn func(Router))
	Route(pattern string, fn func(Router))

	// Mux exposes the underlying handler for tests and the server loop
	Mux() http.Handler
}
