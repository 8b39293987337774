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

// ErrUnauthorized indicates that the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition indicates a status change out of a terminal state or to an unknown state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrInvalidDuration indicates a course duration that maps to zero credits.
var ErrInvalidDuration = errors.New("invalid duration for credits")

// ErrDataCorruption indicates that a stored value disagrees with the value re-derived from it.
var ErrDataCorruption = errors.New("stored data failed consistency check")

// ErrSubmissionRejected indicates the external ledger refused a record. Not retryable.
var ErrSubmissionRejected = errors.New("ledger rejected submission")

// ErrConfirmationTimeout indicates the ledger did not confirm a record in time. Retryable.
var ErrConfirmationTimeout = errors.New("ledger confirmation timed out")

// ErrLedgerUnavailable indicates the ledger could not be reached. Retryable.
var ErrLedgerUnavailable = errors.New("ledger unavailable")

// ErrConcurrentModification indicates another actor holds the credit request.
var ErrConcurrentModification = errors.New("concurrent modification")

// ErrReconciliationRequired indicates a ledger-confirmed approval that could not be
// recorded locally within the automatic retry budget. Needs an operator.
var ErrReconciliationRequired = errors.New("reconciliation required")

// ErrInternal is returned when the cause should not be exposed to the caller.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
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

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsRetryable reports whether the caller may safely re-invoke the same operation.
// An error that needs an operator is never retryable, whatever it wraps.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrReconciliationRequired) {
		return false
	}
	return errors.Is(err, ErrConfirmationTimeout) || errors.Is(err, ErrLedgerUnavailable)
}
