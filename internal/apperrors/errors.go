package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConstraint indicates an operation that would break a ledger invariant,
// such as deleting a default account or a category still in use.
var ErrConstraint = errors.New("constraint violation")

// ErrSchema indicates that a ledger scope could not be prepared or rebuilt.
var ErrSchema = errors.New("schema error")

// ErrStorage indicates a failure of the underlying database or blob store.
var ErrStorage = errors.New("storage error")

// ErrBackupIntegrity indicates a snapshot that is malformed, oversized or
// otherwise unusable for restore.
var ErrBackupIntegrity = errors.New("backup integrity error")

// ErrPayloadTooLarge indicates a snapshot above the configured size ceiling.
// It is always wrapped together with ErrBackupIntegrity.
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrUnauthorized indicates a missing or rejected PIN or session token.
var ErrUnauthorized = errors.New("unauthorized")

// AppError pairs an underlying error with the HTTP status it should surface as.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// HTTPStatus maps an error chain to the status code a handler should return.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConstraint):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrBackupIntegrity):
		return http.StatusUnprocessableEntity
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}
