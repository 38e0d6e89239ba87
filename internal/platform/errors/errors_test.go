package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeInvalidPosition, http.StatusUnprocessableEntity},
		{ErrorCodeInvalidBoundary, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeNotInSession, http.StatusForbidden},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestConstructorsAndRendering(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	e := New(ErrorCodeValidation, "bad payload")
	if CodeOf(e) != ErrorCodeValidation || e.Error() != "bad payload" {
		t.Fatalf("New: %v / %q", CodeOf(e), e.Error())
	}

	ef := Newf(ErrorCodeJSON, "bad json at byte %d", 12)
	if ef.Error() != "bad json at byte 12" {
		t.Fatalf("Newf render = %q", ef.Error())
	}

	cause := stderrs.New("connection reset")
	w := Wrap(cause, ErrorCodeDB, "load snapshot")
	if stderrs.Unwrap(w) != cause {
		t.Fatal("Wrap lost the cause")
	}
	if w.Error() != "load snapshot: connection reset" {
		t.Fatalf("Wrap render = %q", w.Error())
	}

	wf := Wrapf(cause, ErrorCodeConflict, "version %d gone", 3)
	if want := "version 3 gone: connection reset"; wf.Error() != want {
		t.Fatalf("Wrapf render = %q, want %q", wf.Error(), want)
	}
}

func TestAsAndCodeExtraction(t *testing.T) {
	ours := Newf(ErrorCodeNotInSession, "user %s left", "alice")
	foreign := stderrs.New("plain")

	if e, ok := As(ours); !ok || e.Code() != ErrorCodeNotInSession {
		t.Fatal("As must recognize our errors")
	}
	if _, ok := As(foreign); ok {
		t.Fatal("As must reject foreign errors")
	}

	// the code survives standard wrapping
	layered := fmt.Errorf("handler: %w", ours)
	if CodeOf(layered) != ErrorCodeNotInSession {
		t.Fatalf("CodeOf(wrapped) = %v", CodeOf(layered))
	}
	if CodeOf(foreign) != ErrorCodeUnknown {
		t.Fatalf("CodeOf(foreign) = %v", CodeOf(foreign))
	}
	if !IsCode(layered, ErrorCodeNotInSession) {
		t.Fatal("IsCode through wrapping failed")
	}
}

func TestCopyOnWriteMutators(t *testing.T) {
	base := Wrap(stderrs.New("boom"), ErrorCodeInvalidArgument, "bad cursor")

	withField := WithField(base, "position")
	if fe, _ := As(withField); fe.Field() != "position" {
		t.Fatalf("field = %q", fe.Field())
	}

	// the original must stay untouched
	if b, _ := As(base); b.Field() != "" {
		t.Fatal("mutator modified the original")
	}

	// foreign errors pass through unchanged
	foreign := stderrs.New("plain")
	if WithField(foreign, "x") != foreign {
		t.Fatal("foreign error must pass through")
	}
}

func TestWirePayloads(t *testing.T) {
	e := &Error{code: ErrorCodeValidation, msg: "session_id is required", field: "session_id"}
	w := e.ToWire()
	if w.Code != ErrorCodeValidation || w.Message != "session_id is required" || w.Field != "session_id" {
		t.Fatalf("ToWire = %+v", w)
	}

	if wf := WireFrom(nil); wf != (Wire{}) {
		t.Fatalf("WireFrom(nil) = %+v", wf)
	}
	if wf := WireFrom(stderrs.New("raw")); wf.Code != ErrorCodeUnknown || wf.Message != "raw" {
		t.Fatalf("WireFrom(foreign) = %+v", wf)
	}

	// the wire message is the annotation alone, never "msg: cause"
	wrapped := Wrap(stderrs.New("pq: duplicate"), ErrorCodeDuplicateKey, "document exists")
	if wf := WireFrom(wrapped); wf.Message != "document exists" {
		t.Fatalf("WireFrom(wrapped) message = %q", wf.Message)
	}
}

func TestRoot(t *testing.T) {
	cause := stderrs.New("disk full")
	deep := fmt.Errorf("save: %w", Wrap(cause, ErrorCodeDB, "flush snapshot"))
	if got := Root(deep); got != cause {
		t.Fatalf("Root = %v", got)
	}
	if Root(nil) != nil {
		t.Fatal("Root(nil) must be nil")
	}
}

func TestSugarCodes(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("session %s", "s1"), ErrorCodeNotFound},
		{InvalidArgf("bad op"), ErrorCodeInvalidArgument},
		{Conflictf("stale base"), ErrorCodeConflict},
		{JSONErrf("trailing data"), ErrorCodeJSON},
		{PanicErrf("recovered"), ErrorCodePanic},
		{InvalidPositionf("pos %d", 99), ErrorCodeInvalidPosition},
		{InvalidBoundaryf("splits rune"), ErrorCodeInvalidBoundary},
		{NotInSessionf("user %s", "bob"), ErrorCodeNotInSession},
	}
	for _, c := range cases {
		if !IsCode(c.err, c.code) {
			t.Fatalf("%v: code = %v, want %v", c.err, CodeOf(c.err), c.code)
		}
	}
}

func TestHTTPBundle(t *testing.T) {
	if st, w := HTTP(nil); st != http.StatusOK || w != (Wire{}) {
		t.Fatalf("HTTP(nil) = %d %+v", st, w)
	}
	st, w := HTTP(NotFoundf("document missing"))
	if st != http.StatusNotFound || w.Code != ErrorCodeNotFound {
		t.Fatalf("HTTP(err) = %d %+v", st, w)
	}
}

func TestErrNotFoundSentinel(t *testing.T) {
	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatal("sentinel lost its code")
	}
	if !stderrs.Is(fmt.Errorf("lookup: %w", ErrNotFound), ErrNotFound) {
		t.Fatal("sentinel must survive wrapping for errors.Is")
	}
}
