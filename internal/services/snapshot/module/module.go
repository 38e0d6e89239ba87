// Package module wires the snapshot worker
package module

import (
	"context"
	"time"

	"coedit/internal/modkit"
	"coedit/internal/modkit/httpkit"
	"coedit/internal/platform/config"
	collabdomain "coedit/internal/services/collab/domain"
	"coedit/internal/services/snapshot/repo"
	"coedit/internal/services/snapshot/service"
)

// Options controls the snapshot worker
type Options struct {
	Every time.Duration
}

// FromConfig reads with SNAPSHOT_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("SNAPSHOT_")
	return Options{
		Every: c.MayDuration("EVERY", 30*time.Second),
	}
}

// Module implements the snapshot worker module
type Module struct {
	deps modkit.Deps
	svc  *service.Service
}

// New constructs the snapshot module; deps.PG must be set and source is the
// collab module's snapshot port
func New(deps modkit.Deps, source collabdomain.SnapshotSource) *Module {
	opts := FromConfig(deps.Cfg)
	svc := service.New(repo.NewPG(deps.PG), source, service.Config{
		Every: opts.Every,
	})
	return &Module{deps: deps, svc: svc}
}

// Run sweeps until ctx is done
func (m *Module) Run(ctx context.Context) error { return m.svc.Run(ctx) }

// Ports returns the module ports
func (m *Module) Ports() any { return nil }

// Name returns the module name
func (m *Module) Name() string { return "snapshot" }

// Prefix returns the module route prefix (none for worker-only service)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
