package errors

// Maps pgx errors to project ErrorCodes and retry semantics

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the mapping distinguishes
const (
	pgErrUniqueViolation           = "23505"
	pgErrForeignKeyViolation       = "23503"
	pgErrNotNullViolation          = "23502"
	pgErrCheckViolation            = "23514"
	pgErrStringDataRightTruncation = "22001"
	pgErrInvalidTextRepresentation = "22P02"

	pgErrSerializationFailure   = "40001"
	pgErrDeadlockDetected       = "40P01"
	pgErrLockNotAvailable       = "55P03"
	pgErrReadOnlySQLTransaction = "25006"
	pgErrCannotConnectNow       = "57P03" // i.e. startup in progress
)

// codeBySQLState classifies known states; anything else is a generic DB error
var codeBySQLState = map[string]ErrorCode{
	pgErrUniqueViolation: ErrorCodeDuplicateKey,

	// input referenced a missing row: classify as invalid input
	pgErrForeignKeyViolation: ErrorCodeInvalidArgument,

	pgErrNotNullViolation: ErrorCodeValidation,
	pgErrCheckViolation:   ErrorCodeValidation,

	pgErrStringDataRightTruncation: ErrorCodeInvalidArgument,
	pgErrInvalidTextRepresentation: ErrorCodeInvalidArgument,

	// retryable server-side contention
	pgErrSerializationFailure: ErrorCodeDB,
	pgErrDeadlockDetected:     ErrorCodeDB,
	pgErrLockNotAvailable:     ErrorCodeDB,

	pgErrReadOnlySQLTransaction: ErrorCodeUnavailable,
	pgErrCannotConnectNow:       ErrorCodeUnavailable,
}

// DBErrorCode maps a Postgres error to an ErrorCode. !ok means err wasn't a
// PgError and the caller should fall back to generic handling
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}
	if code, known := codeBySQLState[pgErr.Code]; known {
		return code, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a pg error with its mapped ErrorCode; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is the formatted variant of FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// retryableTexts are driver messages seen on commit/abort or lock-timeout
// paths where pgx surfaces plain text instead of a PgError
var retryableTexts = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"serialization failure",
	"canceling statement due to statement timeout",
	"canceling statement due to lock timeout",
	"could not obtain lock on row",
	"terminating connection due to administrator command",
}

// IsRetryable reports whether a database error is a transient condition
// worth retrying
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// local cancellations/timeouts are the caller's decision, not ours
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	root := Root(err)

	var pgErr *pgconn.PgError
	if stderrs.As(root, &pgErr) {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlockDetected, pgErrLockNotAvailable:
			return true
		}
		return false
	}

	s := strings.ToLower(root.Error())
	for _, text := range retryableTexts {
		if strings.Contains(s, text) {
			return true
		}
	}
	return false
}
