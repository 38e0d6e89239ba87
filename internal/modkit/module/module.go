// Package module holds the module contract and the port registry the
// gateway uses to cross-wire modules at bootstrap
package module

import (
	phttp "coedit/internal/platform/net/http"
)

// Module mirrors modkit.Module; it lives here so port helpers can accept
// any module without importing modkit and creating a knot
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
