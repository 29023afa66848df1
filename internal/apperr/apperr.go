// Package apperr is the error vocabulary shared by services and handlers.
//
// Services return *AppError values (or wrap storage errors with FromStorage);
// handlers turn them into HTTP responses without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// AppError carries an HTTP status, a machine code and a client-safe message.
// Cause is for server-side logging only.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// ValidationError is a 400 with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Field is shorthand for a validation error on one field.
func Field(field, msg string) *AppError {
	return ValidationError("Validation failed", FieldError{Field: field, Message: msg})
}

// Conflict reports a uniqueness violation. It is a 400, not a 409, so clients
// treat it like any other invalid submission.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

func RateLimited(msg string) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    msg,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Internal hides the cause from the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// As extracts the *AppError from err's chain, or nil.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// FromStorage maps a GORM / pgx error to an AppError. resource names the
// entity for not-found messages. AppErrors pass through untouched, which lets
// model hooks return validation errors from inside a write.
func FromStorage(err error, resource string) error {
	if err == nil {
		return nil
	}
	if ae := As(err); ae != nil {
		return ae
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(resource)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return withCause(Conflict(fmt.Sprintf("%s already exists", resource)), err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return withCause(ValidationError("Referenced object does not exist"), err)
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return withCause(ValidationError("Value out of range"), err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return withCause(Conflict(fmt.Sprintf("%s already exists", resource)), err)
		case pgForeignKeyViolation:
			return withCause(ValidationError("Referenced object does not exist"), err)
		case pgCheckViolation:
			return withCause(ValidationError("Value out of range"), err)
		}
	}

	return Internal(err)
}

// IsConflict reports whether err is a translated uniqueness violation.
func IsConflict(err error) bool {
	ae := As(err)
	return ae != nil && ae.Code == "CONFLICT"
}

func IsNotFound(err error) bool {
	ae := As(err)
	return ae != nil && ae.Code == "NOT_FOUND"
}

func withCause(e *AppError, cause error) *AppError {
	e.Cause = cause
	return e
}
