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

// ErrInvalidState indicates that an entity is not in a state that permits the operation.
var ErrInvalidState = errors.New("invalid state")

// ErrConflict indicates a clash with existing data, e.g. a duplicate conversion.
var ErrConflict = errors.New("conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = fmt.Errorf("%w: resource already exists", ErrConflict)

// ErrForbidden indicates the caller lacks the capability for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected store or system failure.
var ErrInternal = errors.New("internal error")

// ErrConcurrentUpdate marks a transaction that lost a race (serialization failure or
// a document number collision). Callers retry the unit of work; it never reaches clients.
var ErrConcurrentUpdate = errors.New("concurrent update detected")

// AppError carries an HTTP-ish status code alongside a message and the underlying cause.
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

// Is lets errors.Is match the kind implied by the status code, so a
// 500 AppError satisfies errors.Is(err, ErrInternal).
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrInternal:
		return e.Code >= http.StatusInternalServerError
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	}
	return false
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds a not-found error for the named entity.
func NewNotFoundError(entity string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, entity)
}

// Kind reduces err to one of the public sentinel kinds. Unknown errors are Internal.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConcurrentUpdate):
		return ErrInternal
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrValidation):
		return ErrValidation
	case errors.Is(err, ErrInvalidState):
		return ErrInvalidState
	case errors.Is(err, ErrConflict):
		return ErrConflict
	case errors.Is(err, ErrForbidden):
		return ErrForbidden
	default:
		return ErrInternal
	}
}
