package errors

import (
	"context"
	stderrs "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code}
}

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},    // unique violation
		{"23503", ErrorCodeInvalidArgument}, // fk violation -> invalid input
		{"23502", ErrorCodeValidation},      // not null
		{"23514", ErrorCodeValidation},      // check
		{"22001", ErrorCodeInvalidArgument}, // string truncation
		{"22P02", ErrorCodeInvalidArgument}, // invalid text representation
		{"40001", ErrorCodeDB},              // serialization failure (retryable) mapped to DB
		{"40P01", ErrorCodeDB},              // deadlock
		{"55P03", ErrorCodeDB},              // lock not available
		{"25006", ErrorCodeUnavailable},     // read-only
		{"57P03", ErrorCodeUnavailable},     // cannot connect now
		{"XXXXX", ErrorCodeDB},              // default branch
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pg(c.code))
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}

	// Non-pg error path
	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatalf("DBErrorCode should return ok=false for non-pg error")
	}
}

func TestFromPostgresVariants(t *testing.T) {
	// nil passthrough
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("FromPostgres(nil) should be nil")
	}
	if FromPostgresf(nil, "x %d", 1) != nil {
		t.Fatalf("FromPostgresf(nil) should be nil")
	}

	// mapped: check codes only (PgError string includes SQLSTATE formatting)
	err := FromPostgres(pg("23505"), "insert snapshot")
	if CodeOf(err) != ErrorCodeDuplicateKey {
		t.Fatalf("FromPostgres map code = %v", CodeOf(err))
	}
	errf := FromPostgresf(pg("22P02"), "bad: %s", "version")
	if CodeOf(errf) != ErrorCodeInvalidArgument {
		t.Fatalf("FromPostgresf code = %v, want %v", CodeOf(errf), ErrorCodeInvalidArgument)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(pg("40001")) { // serialization failure
		t.Fatalf("40001 should be retryable")
	}
	if !IsRetryable(pg("40P01")) { // deadlock
		t.Fatalf("40P01 should be retryable")
	}
	if !IsRetryable(pg("55P03")) { // lock not available
		t.Fatalf("55P03 should be retryable")
	}
	// non-retryable
	if IsRetryable(pg("23505")) {
		t.Fatalf("23505 should not be retryable")
	}
	if IsRetryable(stderrs.New("nope")) {
		t.Fatalf("non-pg error should not be retryable")
	}
}

func TestIsRetryable_TextFallback(t *testing.T) {
	// pgx surfaces some transient conditions as plain text, not PgError
	if !IsRetryable(stderrs.New("FATAL: terminating connection due to administrator command")) {
		t.Fatalf("admin shutdown text should be retryable")
	}
	if !IsRetryable(Wrap(stderrs.New("commit unexpectedly resulted in rollback"), ErrorCodeDB, "save")) {
		t.Fatalf("commit rollback text should survive wrapping")
	}
}

func TestIsRetryable_LocalCancellation(t *testing.T) {
	if IsRetryable(context.Canceled) {
		t.Fatalf("context.Canceled is the caller's choice, not retryable")
	}
	if IsRetryable(context.DeadlineExceeded) {
		t.Fatalf("DeadlineExceeded is not retryable")
	}
	if IsRetryable(nil) {
		t.Fatalf("nil is not retryable")
	}
}
