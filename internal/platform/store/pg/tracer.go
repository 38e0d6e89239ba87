package pg

import (
	"context"
	"strings"

	"coedit/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one executed statement as seen by the adapter
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives a QueryEvent per statement when SQL logging is on
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer builds a QueryTracer over root. The returned tracer forces its
// own level so enabling LogSQL prints statements even when the root
// logger sits above debug
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds multi-line SQL onto one trimmed line for the log
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
