//go:build !swag

package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"coedit/internal/platform/config"
	phttp "coedit/internal/platform/net/http"
)

func docsGet(t *testing.T, r phttp.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMount_ServesDocumentAndRedirect(t *testing.T) {
	r := phttp.NewServer(config.New()).Router()
	Mount(r, true)

	rec := docsGet(t, r, "/api/docs/doc.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("doc.json = %d", rec.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("document is not JSON: %v", err)
	}
	if _, ok := doc["openapi"]; !ok {
		t.Fatalf("document misses openapi field: %v", doc)
	}

	if rec := docsGet(t, r, "/api/docs"); rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("bare /api/docs = %d, want 308", rec.Code)
	}
}

func TestMount_DisabledServesNothing(t *testing.T) {
	r := phttp.NewServer(config.New()).Router()
	Mount(r, false)

	if rec := docsGet(t, r, "/api/docs/doc.json"); rec.Code != http.StatusNotFound {
		t.Fatalf("disabled docs = %d, want 404", rec.Code)
	}
}
