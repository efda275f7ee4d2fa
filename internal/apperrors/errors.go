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

// ErrInvalidState indicates the operation is not permitted in the resource's current lifecycle state.
var ErrInvalidState = errors.New("invalid state")

// ErrConflict indicates a concurrent modification was detected at the persistence boundary.
// Callers may retry after re-reading the resource.
var ErrConflict = errors.New("concurrent modification")

// ErrDependency indicates that an external collaborator (storage, email, payment gateway) failed.
var ErrDependency = errors.New("dependency failure")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// AppError carries an HTTP-ish status code and message alongside the underlying cause.
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

// Unwrap exposes the wrapped error so errors.Is can match sentinels.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError. Storage failures use code 500 and are treated as dependency errors.
func NewAppError(code int, message string, err error) *AppError {
	if code >= http.StatusInternalServerError && err != nil && !errors.Is(err, ErrDependency) {
		err = fmt.Errorf("%w: %w", ErrDependency, err)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with a message.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationFailedError wraps ErrValidation with a message.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewConflictError wraps ErrConflict with a message.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}

// NewDuplicateError wraps ErrDuplicate with a message.
func NewDuplicateError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

// NewInvalidStateError wraps ErrInvalidState with a message.
func NewInvalidStateError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrInvalidState}
}

// NewDependencyError wraps ErrDependency and the collaborator's error.
func NewDependencyError(message string, err error) *AppError {
	if err == nil {
		return &AppError{Code: http.StatusBadGateway, Message: message, Err: ErrDependency}
	}
	return &AppError{Code: http.StatusBadGateway, Message: message, Err: fmt.Errorf("%w: %w", ErrDependency, err)}
}

// HTTPStatus maps an error onto the status code the API should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate), errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrDependency):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
