package modkit

import (
	"coedit/internal/platform/config"
	"coedit/internal/platform/logger"
	"coedit/internal/platform/store"
)

// Deps carries the shared infrastructure every module is constructed with.
// Fields may be zero: modules that want postgres or redis nil-check the
// seam and fall back to in-memory behaviour when it is absent.
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  store.TxRunner
	RDS store.Redis
}
