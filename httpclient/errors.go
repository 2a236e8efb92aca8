package httpclient

import (
	"errors"
	"fmt"
	"time"
)

// ClientError represents different types of REST client errors
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of client error
type ErrorType string

const (
	NetworkError    ErrorType = "network"
	TimeoutError    ErrorType = "timeout"
	HTTPError       ErrorType = "http"
	ThrottleError   ErrorType = "throttle_exhausted"
	ValidationError ErrorType = "validation"
)

// networkError represents network-related errors
type networkError struct {
	message string
	wrapped error
}

func (e *networkError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("network error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("network error: %s", e.message)
}

func (e *networkError) Type() ErrorType {
	return NetworkError
}

func (e *networkError) Unwrap() error {
	return e.wrapped
}

// timeoutError represents timeout-related errors
type timeoutError struct {
	message string
	timeout time.Duration
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (timeout: %v)", e.message, e.timeout)
}

func (e *timeoutError) Type() ErrorType {
	return TimeoutError
}

// httpError represents HTTP status-related errors
type httpError struct {
	message    string
	statusCode int
	body       []byte
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP error: %s (status: %d)", e.message, e.statusCode)
}

func (e *httpError) Type() ErrorType {
	return HTTPError
}

func (e *httpError) StatusCode() int {
	return e.statusCode
}

func (e *httpError) Body() []byte {
	return e.body
}

// throttleExhaustedError reports that every permitted attempt was answered
// with a throttling response.
type throttleExhaustedError struct {
	statusCode int
	maxRetries int
}

func (e *throttleExhaustedError) Error() string {
	return fmt.Sprintf("throttle retries exhausted: status %d after %d attempts", e.statusCode, e.maxRetries)
}

func (e *throttleExhaustedError) Type() ErrorType {
	return ThrottleError
}

func (e *throttleExhaustedError) StatusCode() int {
	return e.statusCode
}

func (e *throttleExhaustedError) MaxRetries() int {
	return e.maxRetries
}

// validationError represents request validation errors
type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType {
	return ValidationError
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, wrapped error) ClientError {
	return &networkError{
		message: message,
		wrapped: wrapped,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, timeout time.Duration) ClientError {
	return &timeoutError{
		message: message,
		timeout: timeout,
	}
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(message string, statusCode int, body []byte) ClientError {
	return &httpError{
		message:    message,
		statusCode: statusCode,
		body:       body,
	}
}

// NewThrottleExhaustedError creates a new throttle-exhausted error
func NewThrottleExhaustedError(statusCode, maxRetries int) ClientError {
	return &throttleExhaustedError{
		statusCode: statusCode,
		maxRetries: maxRetries,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message, field string) ClientError {
	return &validationError{
		message: message,
		field:   field,
	}
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsHTTPStatusError checks if an error is an HTTP error with a specific status code
func IsHTTPStatusError(err error, statusCode int) bool {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode() == statusCode
	}
	return false
}

// IsThrottleExhausted checks if an error reports an exhausted throttle retry budget.
// The returned status code is the one observed on the final attempt.
func IsThrottleExhausted(err error) (statusCode int, ok bool) {
	var throttleErr *throttleExhaustedError
	if errors.As(err, &throttleErr) {
		return throttleErr.statusCode, true
	}
	return 0, false
}
