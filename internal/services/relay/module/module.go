// Package module wires the event relay worker
package module

import (
	"context"

	"coedit/internal/modkit"
	"coedit/internal/modkit/httpkit"
	"coedit/internal/platform/config"
	"coedit/internal/services/collab/domain"
	"coedit/internal/services/relay/service"
)

// Options controls the relay worker
type Options struct {
	ChannelPrefix string
	QueueSize     int
}

// FromConfig reads with RELAY_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("RELAY_")
	return Options{
		ChannelPrefix: c.MayString("CHANNEL_PREFIX", "collab.events"),
		QueueSize:     c.MayInt("QUEUE_SIZE", 1024),
	}
}

// Ports exposed by the relay module
type Ports struct {
	// Sink mirrors collaboration events onto redis; hand it to the
	// collab manager
	Sink func(domain.Event)
}

// Module implements the relay worker module
type Module struct {
	deps  modkit.Deps
	svc   *service.Service
	ports Ports
}

// New constructs the relay module; deps.RDS must be set
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)
	svc := service.New(deps.RDS, service.Config{
		ChannelPrefix: opts.ChannelPrefix,
		QueueSize:     opts.QueueSize,
	})
	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Sink: svc.Offer}
	return m
}

// Run drains the relay queue until ctx is done
func (m *Module) Run(ctx context.Context) error { return m.svc.Run(ctx) }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "relay" }

// Prefix returns the module route prefix (none for worker-only service)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
