package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// Is lets errors.Is match two AppErrors by code, so sentinel values like
// ErrSlotNoLongerAvailable survive %w wrapping in the service layer.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

// StatusCode maps the error code to an HTTP status for the error
// middleware.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	case ErrUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrConflict
	ErrUnprocessable
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewConflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

func NewUnprocessable(message string, err error) *AppError {
	return &AppError{
		Code:    ErrUnprocessable,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// Booking-flow sentinels. Handlers match these with errors.Is and map
// them to the refresh/degrade paths described in the API docs.
var (
	// ErrMalformedConfig marks a salon hours blob that could not be
	// parsed. Non-fatal: callers fall back to default hours.
	ErrMalformedConfig = &AppError{Code: ErrUnprocessable, Message: "malformed operating hours configuration"}

	// ErrSlotNoLongerAvailable is the retryable commit conflict. The
	// client must refresh the slot list and pick again, never re-submit
	// the same slot.
	ErrSlotNoLongerAvailable = &AppError{Code: ErrConflict, Message: "slot no longer available"}

	// ErrPastDate rejects a booking date before today, salon-local.
	ErrPastDate = &AppError{Code: ErrBadRequest, Message: "cannot book a past date"}

	// ErrEmployeeUnavailable signals no active employee can take the
	// requested slot.
	ErrEmployeeUnavailable = &AppError{Code: ErrUnprocessable, Message: "no employee available for the requested slot"}
)
