// Package modkit is the glue between the gateway and the service modules:
// a small Module contract, shared Deps, and a functional-options builder
package modkit

import (
	"coedit/internal/modkit/httpkit"
)

// Module is what the gateway expects from every service module
type Module interface {
	// MountRoutes attaches the module's endpoints to r
	MountRoutes(r httpkit.Router)

	// Ports exposes the module's cross-module surface, nil when it has none
	Ports() any

	// Name identifies the module in logs and the port registry
	Name() string
}
