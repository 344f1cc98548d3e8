package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an application error code.
type ErrorCode string

const (
	ErrValidation      ErrorCode = "VALIDATION_ERROR"  // 400
	ErrUnauthorized    ErrorCode = "UNAUTHORIZED"      // 401
	ErrForbidden       ErrorCode = "FORBIDDEN"         // 403
	ErrNotFound        ErrorCode = "NOT_FOUND"         // 404
	ErrCancelledByUser ErrorCode = "CANCELLED_BY_USER" // 499
	ErrIO              ErrorCode = "IO_ERROR"          // 500
	ErrRender          ErrorCode = "RENDER_ERROR"      // 500
	ErrInternal        ErrorCode = "INTERNAL"          // 500
	ErrRenderTimeout   ErrorCode = "RENDER_TIMEOUT"    // 504
)

// AppError represents a structured error with code, status, and details.
type AppError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// PublicMessage is the message safe to return to a client. INTERNAL and
// IO_ERROR messages may carry paths or driver text and are replaced.
func (e *AppError) PublicMessage() string {
	switch e.Code {
	case ErrInternal:
		return "internal error"
	case ErrIO:
		return "file operation failed"
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

// NewValidation creates a 400 error for a missing or malformed required field.
func NewValidation(msg string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Status:  400,
		Message: msg,
	}
}

// NewIdentityRequired creates a 400 error for records lacking their identity fields.
func NewIdentityRequired(collection string, fields ...string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Status:  400,
		Message: fmt.Sprintf("identity field required: %v", fields),
		Details: map[string]any{"collection": collection, "fields": fields},
	}
}

// NewUnauthorized creates a 401 error for rejected credentials.
func NewUnauthorized(msg string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Status:  401,
		Message: msg,
	}
}

// NewForbidden creates a 403 error for requests from an untrusted origin or host.
func NewForbidden(msg string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Status:  403,
		Message: msg,
	}
}

// NewUnsupportedMedia creates a 415 validation error for request bodies that are not JSON.
func NewUnsupportedMedia(contentType string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Status:  415,
		Message: fmt.Sprintf("content type %q is not supported, use application/json", contentType),
	}
}

// NewNotFound creates a 404 error for when a record cannot be found.
func NewNotFound(collection, identifier string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", collection, identifier),
		Details: map[string]any{"collection": collection, "identifier": identifier},
	}
}

// NewCancelledByUser creates an error for a dismissed save-location chooser.
func NewCancelledByUser() *AppError {
	return &AppError{
		Code:    ErrCancelledByUser,
		Status:  499,
		Message: "cancelled by user",
	}
}

// NewIO creates a 500 error for a file read or write failure.
func NewIO(path string, err error) *AppError {
	msg := "i/o error"
	if err != nil {
		msg = err.Error()
	}
	return &AppError{
		Code:    ErrIO,
		Status:  500,
		Message: msg,
		Details: map[string]any{"path": path},
		cause:   err,
	}
}

// NewRender creates a 500 error for template or rasterization failures.
func NewRender(err error) *AppError {
	msg := "render failed"
	if err != nil {
		msg = err.Error()
	}
	return &AppError{
		Code:    ErrRender,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// NewRenderTimeout creates a 504 error when the off-screen page did not finish in time.
func NewRenderTimeout(seconds float64) *AppError {
	return &AppError{
		Code:    ErrRenderTimeout,
		Status:  504,
		Message: fmt.Sprintf("render did not complete within %.0fs", seconds),
		Details: map[string]any{"timeout_seconds": seconds},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *AppError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &AppError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is (or wraps) an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// As converts any error into an AppError, wrapping unknown errors as INTERNAL.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}
