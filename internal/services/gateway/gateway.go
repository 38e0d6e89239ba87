// Package gateway composes the HTTP surface and background workers
package gateway

import (
	"context"

	"coedit/internal/platform/config"
	"coedit/internal/platform/logger"
	phttp "coedit/internal/platform/net/http"
	"coedit/internal/platform/store"

	"coedit/internal/modkit"
	"coedit/internal/modkit/httpkit"
	"coedit/internal/modkit/module"
	"coedit/internal/modkit/swaggerkit"

	collabmod "coedit/internal/services/collab/module"
	metamod "coedit/internal/services/meta/module"
	relaymod "coedit/internal/services/relay/module"
	snapshotmod "coedit/internal/services/snapshot/module"
)

// Options are the gateway options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	CORSOrigins    []string
	EnableSwagger  bool
	EnableProfiler bool
}

// Runner is a long-lived worker loop; it blocks until ctx is done
type Runner func(ctx context.Context) error

// Mount wires every module onto the router and returns the worker loops
// the caller must run (session reaper, event relay, snapshot writer)
func Mount(r phttp.Router, opt Options) []Runner {
	deps := modkit.Deps{
		Cfg: opt.Config,
		Log: *opt.Logger,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.RDS = opt.Store.RDS
	}

	// collab owns the in-memory engine; everything else hangs off the ports
	// it publishes in the registry
	collab := collabmod.New(deps)
	module.Register(collab.Name(), collab.Ports())
	collabPorts, ok := module.PortsAs[collabmod.Ports](collab.Name())
	if !ok {
		panic("collab module did not publish its ports")
	}

	runners := []Runner{collab.Run}

	mods := []module.Module{collab}

	// relay mirrors events onto redis pub/sub when redis is configured
	if deps.RDS != nil {
		relay := relaymod.New(deps)
		collab.SetSink(module.MustPortsOf[relaymod.Ports](relay).Sink)
		mods = append(mods, relay)
		runners = append(runners, relay.Run)
	}

	// snapshot persists document state to postgres when it is configured
	if deps.PG != nil {
		snap := snapshotmod.New(deps, collabPorts.Snapshots)
		mods = append(mods, snap)
		runners = append(runners, snap.Run)
	}

	mods = append(mods, metamod.New(
		deps,
		modkit.WithPorts(metamod.Ports{
			Stats: collabPorts.Manager,
			RDS:   deps.RDS,
		}),
	))

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.CORSOrigins...), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	// the websocket endpoint lives outside the common stack: Timeout would
	// cut long-lived connections and Compress breaks the upgrade hijack
	collab.MountWS(r)

	return runners
}
