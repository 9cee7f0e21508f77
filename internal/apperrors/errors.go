package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller lacks permission on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Calculation error kinds. These classify engine failures so handlers can map
// them without inspecting message text.

// ErrInvalidInput indicates a calculation input outside its documented domain
// (negative principal, zero term, malformed cash-flow series, ...).
var ErrInvalidInput = errors.New("invalid input")

// ErrUnknownEntityType indicates an entity kind outside the supported set.
var ErrUnknownEntityType = errors.New("unknown entity type")

// ErrInvalidFiscalSettings indicates fiscal settings that fail validation
// (rates outside [0,1], negative threshold).
var ErrInvalidFiscalSettings = errors.New("invalid fiscal settings")

// ErrNoSolution indicates a solver could not produce a result (no sign change
// in the series, iteration budget exhausted).
var ErrNoSolution = errors.New("no solution")

// ErrDateOutOfRange indicates a date outside the range an operation is defined
// on, e.g. a balance query before a loan starts.
var ErrDateOutOfRange = errors.New("date out of range")

// AppError carries an HTTP-ish status code alongside a message. Used by the
// repository transaction helpers where a sentinel alone is not enough.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
