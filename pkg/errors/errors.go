package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API clients
const (
	CodeMissingField       = "MISSING_FIELD"
	CodeRideNotFound       = "RIDE_NOT_FOUND"
	CodeDriverNotFound     = "DRIVER_NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeDriverBusy         = "DRIVER_BUSY"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeRoutingUnavailable = "ROUTING_UNAVAILABLE"
	CodeRouteNotFound      = "ROUTE_NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeInvalidOTP         = "INVALID_OTP"
	CodeOTPExpired         = "OTP_EXPIRED"
	CodeNotVerified        = "NOT_VERIFIED"
	CodeOTPThrottled       = "OTP_THROTTLED"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Common error constructors

// BadRequest creates a 400 error
func BadRequest(message string, err error) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: message, Status: http.StatusBadRequest, Err: err}
}

// Unauthorized creates a 401 error
func Unauthorized(message string, err error) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message, Status: http.StatusUnauthorized, Err: err}
}

// NotFound creates a 404 error
func NotFound(message string, err error) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, Status: http.StatusNotFound, Err: err}
}

// Conflict creates a 409 error
func Conflict(message string, err error) *AppError {
	return &AppError{Code: "CONFLICT", Message: message, Status: http.StatusConflict, Err: err}
}

// Internal creates a 500 error
func Internal(message string, err error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError, Err: err}
}

// MissingField creates a 400 error for an absent required field
func MissingField(field string) *AppError {
	return &AppError{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("%s is required", field),
		Status:  http.StatusBadRequest,
	}
}

// RoutingUnavailable creates a 503 error for an unreachable or
// misconfigured routing provider
func RoutingUnavailable(err error) *AppError {
	return &AppError{
		Code:    CodeRoutingUnavailable,
		Message: "Routing provider is unavailable",
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

// Domain-specific errors

var (
	ErrRideNotFound   = &AppError{Code: CodeRideNotFound, Message: "Ride not found", Status: http.StatusNotFound}
	ErrDriverNotFound = &AppError{Code: CodeDriverNotFound, Message: "Driver not found", Status: http.StatusNotFound}
	ErrUserNotFound   = &AppError{Code: CodeUserNotFound, Message: "User not found", Status: http.StatusNotFound}
	ErrRouteNotFound  = &AppError{Code: CodeRouteNotFound, Message: "No route found between origin and destination", Status: http.StatusNotFound}

	ErrDriverBusy        = &AppError{Code: CodeDriverBusy, Message: "Driver already has an active ride", Status: http.StatusConflict}
	ErrInvalidTransition = &AppError{Code: CodeInvalidTransition, Message: "Ride is not in a state that allows this operation", Status: http.StatusConflict}

	ErrInvalidCredentials = &AppError{Code: CodeInvalidCredentials, Message: "Invalid email or password", Status: http.StatusUnauthorized}
	ErrEmailTaken         = &AppError{Code: CodeEmailTaken, Message: "An account with this email already exists", Status: http.StatusConflict}
	ErrInvalidOTP         = &AppError{Code: CodeInvalidOTP, Message: "Invalid OTP", Status: http.StatusBadRequest}
	ErrOTPExpired         = &AppError{Code: CodeOTPExpired, Message: "OTP has expired", Status: http.StatusBadRequest}
	ErrNotVerified        = &AppError{Code: CodeNotVerified, Message: "Email is not verified", Status: http.StatusForbidden}
	ErrOTPThrottled       = &AppError{Code: CodeOTPThrottled, Message: "OTP recently sent. Please wait before requesting another", Status: http.StatusTooManyRequests}
)

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError attempts to convert an error to AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	// Return generic internal error if not an AppError
	return Internal("An unexpected error occurred", err)
}

// IsCode reports whether err is an AppError carrying the given code
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
