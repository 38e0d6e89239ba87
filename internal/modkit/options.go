package modkit

import (
	"net/http"

	"coedit/internal/modkit/httpkit"
)

// Option customises how a module is assembled
type Option func(*buildCfg)

// buildCfg accumulates option values until Build freezes them into a Built
type buildCfg struct {
	name      string
	prefix    string
	mw        []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool
	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// WithName overrides the module's registry name
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix changes the path prefix the module mounts under
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithMiddlewares appends middleware that wrap only this module's routes,
// kept in call order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts hands the module another module's port struct; the concrete
// type is whatever the receiving module documents
func WithPorts[T any](p T) Option {
	return func(c *buildCfg) { c.ports = p }
}

// WithSwagger exposes the module's swagger UI when it is mounted
func WithSwagger(enabled bool) Option {
	return func(c *buildCfg) { c.swaggerOn = enabled }
}

// WithSubrouter swaps the derived router the module mounts its routes on
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(c *buildCfg) { c.subrouter = fn }
}

// WithRegister adds a registration hook run after the module's own routes
func WithRegister(fn func(httpkit.Router)) Option {
	return func(c *buildCfg) { c.register = fn }
}
