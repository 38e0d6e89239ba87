package modkit

import (
	"net/http"
	"testing"

	phttp "coedit/internal/platform/net/http"
)

func TestScalarOptions(t *testing.T) {
	t.Parallel()

	var c buildCfg
	WithName("collab")(&c)
	WithPrefix("/sessions")(&c)
	WithSwagger(true)(&c)

	if c.name != "collab" || c.prefix != "/sessions" || !c.swaggerOn {
		t.Fatalf("cfg = %+v", c)
	}

	WithSwagger(false)(&c)
	if c.swaggerOn {
		t.Fatal("swagger toggle off failed")
	}
}

func TestWithMiddlewares_AccumulatesInOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	tagged := func(tag string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	var c buildCfg
	WithMiddlewares(tagged("request-id"), tagged("recover"))(&c)
	WithMiddlewares(tagged("access-log"))(&c)

	if len(c.mw) != 3 {
		t.Fatalf("middleware count = %d, want 3", len(c.mw))
	}

	var h http.Handler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for i := len(c.mw) - 1; i >= 0; i-- {
		h = c.mw[i](h)
	}
	h.ServeHTTP(nil, nil)

	want := []string{"request-id", "recover", "access-log"}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("middleware order = %v, want %v", calls, want)
		}
	}
}

func TestWithPorts_KeepsConcreteType(t *testing.T) {
	t.Parallel()

	type ports struct {
		Sessions string
		Limit    int
	}

	var c buildCfg
	WithPorts(ports{Sessions: "mgr", Limit: 64})(&c)

	got, ok := c.ports.(ports)
	if !ok {
		t.Fatalf("ports stored as %T", c.ports)
	}
	if got.Sessions != "mgr" || got.Limit != 64 {
		t.Fatalf("ports = %+v", got)
	}
}

func TestRouterHooks(t *testing.T) {
	t.Parallel()

	var c buildCfg

	subCalls := 0
	WithSubrouter(func(r phttp.Router) phttp.Router {
		subCalls++
		return r
	})(&c)

	regCalls := 0
	WithRegister(func(phttp.Router) { regCalls++ })(&c)

	if c.subrouter == nil || c.register == nil {
		t.Fatal("hooks not stored")
	}
	if out := c.subrouter(nil); out != nil {
		t.Fatalf("subrouter should be identity here, got %v", out)
	}
	c.register(nil)

	if subCalls != 1 || regCalls != 1 {
		t.Fatalf("hook invocations: sub=%d reg=%d", subCalls, regCalls)
	}
}
