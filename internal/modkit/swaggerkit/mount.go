// Package swaggerkit mounts the swagger UI and the OpenAPI document
package swaggerkit

import (
	"net/http"

	phttp "coedit/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// docPath is where the UI expects the OpenAPI JSON
const docPath = "/api/docs/doc.json"

// Mount attaches the swagger UI under /api/docs when enabled; a disabled
// gateway serves nothing there
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	// the UI assets are served under the trailing-slash path
	r.Get("/api/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get(docPath, serveDocJSON())
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL(docPath),
	))
}
