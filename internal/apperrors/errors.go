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

// ErrConflict indicates that the operation lost against a concurrent or prior state change.
var ErrConflict = errors.New("conflicting state")

// ErrForbidden indicates the caller lacks the role required for the operation.
var ErrForbidden = errors.New("operation not allowed")

// Settlement-specific errors. Each wraps one of the generic sentinels above so
// callers can match on either the specific or the broad category.
var (
	// ErrInvalidRate is returned when an exchange rate is not positive or a
	// currency code is not a recognized 3-letter code.
	ErrInvalidRate = fmt.Errorf("%w: invalid exchange rate", ErrValidation)

	// ErrRateNotFound is returned when no rate is effective on or before the
	// requested date for a currency pair.
	ErrRateNotFound = fmt.Errorf("%w: exchange rate not found", ErrNotFound)

	// ErrRateImportFailed is returned when a rate import run fails for any
	// reason; nothing from the run is persisted.
	ErrRateImportFailed = errors.New("rate import failed")

	// ErrDuplicateActivePO is returned when a project already has an active
	// purchase order.
	ErrDuplicateActivePO = fmt.Errorf("%w: project already has an active purchase order", ErrDuplicate)

	// ErrInactiveRevisionTarget is returned when a revision targets a row that
	// is no longer the active revision of its chain.
	ErrInactiveRevisionTarget = fmt.Errorf("%w: target revision is not active", ErrConflict)

	// ErrMissingReason is returned when a revision or adjustment is submitted
	// without a reason.
	ErrMissingReason = fmt.Errorf("%w: reason is required", ErrValidation)

	// ErrInvalidAmount is returned for non-positive order amounts or negative
	// adjustment amounts.
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)
)

// AppError carries an HTTP-ish status code alongside a wrapped cause. Used by
// the persistence layer so handlers can still match sentinels with errors.Is.
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

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}
