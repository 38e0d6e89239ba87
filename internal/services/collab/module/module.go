// Package module wires the collaboration engine into the API using modkit
package module

import (
	"context"

	"coedit/internal/modkit"
	"coedit/internal/modkit/httpkit"

	"coedit/internal/services/collab/domain"
	chttp "coedit/internal/services/collab/http"
	"coedit/internal/services/collab/service"
	"coedit/internal/services/collab/ws"
)

// Ports exposed by the collab module
type Ports struct {
	Manager   domain.ManagerPort
	Snapshots domain.SnapshotSource
}

// Module implements the collab service module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	svc   *service.Manager
	ports Ports

	register func(httpkit.Router)
}

// New constructs the collab module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("collab"),
		modkit.WithPrefix("/collab"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	svc := service.New(service.Config{
		FanoutCapacity: cfg.FanoutCapacity,
		HistoryLimit:   cfg.HistoryLimit,
		SessionTTL:     cfg.SessionTTL,
		ReapEvery:      cfg.ReapEvery,
	})

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		svc:    svc,
	}
	m.ports = Ports{
		Manager:   svc,
		Snapshots: svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		chttp.Register(r, svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountWS mounts the realtime endpoint on the root router, outside the
// versioned API stack: the request timeout and compression middleware there
// would break websocket upgrades
func (m *Module) MountWS(r httpkit.Router) { ws.Register(r, m.svc) }

// Run starts the idle-session reaper and blocks until ctx is done
func (m *Module) Run(ctx context.Context) error { return m.svc.Run(ctx) }

// SetSink registers an observer that mirrors every published event; wire it
// before traffic starts
func (m *Module) SetSink(fn func(domain.Event)) { m.svc.SetSink(fn) }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		m.register(rr)
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
