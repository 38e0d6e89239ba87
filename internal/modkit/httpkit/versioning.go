package httpkit

import (
	"net/http"
	"strings"
)

// MountAPI scopes mount under /api/{version} and applies mw to everything
// in that scope; version may carry a leading slash
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.TrimPrefix(version, "/"), func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// MountAPIV1 pins MountAPI to v1, the only version the gateway serves today
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
