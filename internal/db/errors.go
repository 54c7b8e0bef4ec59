package db

import (
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level database error sentinels.
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Link errors
	ErrLinkNotFound = errors.New("link not found")
	ErrForbidden    = errors.New("link not found or access denied")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrStorage replaces unexpected backend errors so they never reach callers.
	ErrStorage = errors.New("storage failure")
)

// ValidationError rejects an operation because of a missing or malformed field.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Is lets errors.Is(err, ErrValidation) match any validation error.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// Postgres SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgError extracts the Postgres error from err, if any.
func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func isUniqueViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgUniqueViolation
}

// foreignKeyViolation reports the violated constraint when err is an FK violation.
func foreignKeyViolation(err error) (string, bool) {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != pgForeignKeyViolation {
		return "", false
	}
	return pgErr.ConstraintName, true
}

// isDomainError reports whether err is one of the sentinels callers are expected to handle.
func isDomainError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrDuplicateUser) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrLinkNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrValidation)
}

// storageError logs an unexpected backend error and returns ErrStorage in its place.
// Domain errors pass through unchanged.
func storageError(op string, err error) error {
	if isDomainError(err) {
		return err
	}
	slog.Error("storage operation failed", "op", op, "error", err)
	return ErrStorage
}
