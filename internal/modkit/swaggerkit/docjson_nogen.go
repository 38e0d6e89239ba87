//go:build !swag

package swaggerkit

import "net/http"

// docReader is a seam so codegen builds can swap in the generated document
var docReader = func() string {
	return `{"openapi":"3.0.3","info":{"title":"Coedit Gateway","version":"0.0.0"},"paths":{}}`
}

// serveDocJSON hands out the skeleton document so the UI still loads on
// builds without the swag tag
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docReader()))
	}
}
