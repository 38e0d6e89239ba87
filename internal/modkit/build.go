package modkit

import (
	"net/http"

	"coedit/internal/modkit/httpkit"
)

// Built is the assembled module configuration Build hands back
type Built struct {
	Name      string
	Prefix    string
	Mw        []func(http.Handler) http.Handler
	Ports     any
	SwaggerOn bool

	// Subrouter derives the router the module mounts on and Register runs
	// after the module's own routes; both are always non-nil
	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build folds opts over identity hooks and freezes the result; the
// middleware slice is copied so later caller mutations cannot leak in
func Build(opts ...Option) Built {
	c := buildCfg{
		subrouter: func(r httpkit.Router) httpkit.Router { return r },
		register:  func(httpkit.Router) {},
	}
	for _, o := range opts {
		o(&c)
	}

	mw := make([]func(http.Handler) http.Handler, len(c.mw))
	copy(mw, c.mw)

	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        mw,
		Ports:     c.ports,
		SwaggerOn: c.swaggerOn,
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}
