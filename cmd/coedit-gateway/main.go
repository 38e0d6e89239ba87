// @title         Coedit Gateway
// @version       0.1.0
// @description   Real-time collaborative document editing over HTTP and websockets

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coedit/internal/platform/config"
	"coedit/internal/platform/logger"
	phttp "coedit/internal/platform/net/http"
	"coedit/internal/platform/store"

	"coedit/internal/services/gateway"
)

func main() {
	// service-scoped config for HTTP etc (CORE_GATEWAY_*)
	root := config.New()
	gwCfg := root.Prefix("CORE_GATEWAY_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")  // pgCfg lives under SERVICE_PGSQL_*
	rdsCfg := root.Prefix("SERVICE_REDIS_") // rdsCfg lives under SERVICE_REDIS_*

	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres for snapshots, redis for the relay);
	// both are optional, the gateway degrades to in-memory only
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     pgCfg.MayBool("ENABLED", false),
				URL:         pgCfg.MayString("DBURL", ""),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),

				ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 0),
				PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 0),
			},
			RDS: store.RedisConfig{
				Enabled: rdsCfg.MayBool("ENABLED", false),
				Addr:    rdsCfg.MayString("ADDR", ""),
				DB:      rdsCfg.MayInt("DB", 0),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// fail fast when a configured backend is unreachable
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := st.Guard(ctx); err != nil {
			l.Warn().Err(err).Msg("store guard reported unhealthy backend")
		}
		cancel()
	}

	// http server (reads CORE_GATEWAY_API_PORT)
	srv := phttp.NewServer(gwCfg)

	// mount the API and collect worker loops (reaper, relay, snapshots)
	runners := gateway.Mount(
		srv.Router(),
		gateway.Options{
			Config:         gwCfg,
			Store:          st,
			Logger:         l,
			CORSOrigins:    gwCfg.MayCSV("CORS_ORIGINS", nil),
			EnableSwagger:  gwCfg.MayBool("SWAGGER", true),
			EnableProfiler: gwCfg.MayBool("PROFILER", true),
		},
	)

	// SIGINT/SIGTERM cancels the workers and drains the http server
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, run := range runners {
		go func(run gateway.Runner) {
			if err := run(ctx); err != nil && ctx.Err() == nil {
				l.Error().Err(err).Msg("worker stopped")
			}
		}(run)
	}

	// blocks until a signal arrives, then drains before returning
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("shutdown complete")
}
