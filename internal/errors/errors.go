// Package errors defines the service error taxonomy used across the API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeInvalidFilter       ErrorCode = "INVALID_FILTER_VALUE"
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	CodeParameterRequired   ErrorCode = "PARAMETER_REQUIRED"
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	CodeRateLimited         ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// ServiceError carries an error code, a client-facing message and the HTTP
// status it maps to.
type ServiceError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`

	cause error
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.cause }

// WithDetails attaches a key/value pair to the error details.
func (e *ServiceError) WithDetails(key string, value any) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NotFound reports a missing or unmatched resource.
func NotFound(resource string) *ServiceError {
	return &ServiceError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// InvalidFilter reports an unparseable filter value.
func InvalidFilter(param string, cause error) *ServiceError {
	return &ServiceError{
		Code:       CodeInvalidFilter,
		Message:    "invalid value for filter[" + param + "]",
		HTTPStatus: http.StatusBadRequest,
		cause:      cause,
	}
}

// Unauthorized reports a rejected credential.
func Unauthorized(message string) *ServiceError {
	return &ServiceError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ParameterRequired reports a missing required path or query parameter.
func ParameterRequired(name string) *ServiceError {
	return &ServiceError{
		Code:       CodeParameterRequired,
		Message:    "ParameterException: Required " + name,
		HTTPStatus: http.StatusBadRequest,
	}
}

// UpstreamUnavailable reports a failed call to an external collaborator.
func UpstreamUnavailable(upstream string, cause error) *ServiceError {
	return &ServiceError{
		Code:       CodeUpstreamUnavailable,
		Message:    upstream + " unavailable",
		HTTPStatus: http.StatusBadGateway,
		cause:      cause,
	}
}

// RateLimitExceeded reports that the caller exhausted its request budget.
func RateLimitExceeded(limit int, window string) *ServiceError {
	return &ServiceError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("rate limit of %d requests per %s exceeded", limit, window),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Internal reports an unrecoverable server-side failure.
func Internal(message string, cause error) *ServiceError {
	return &ServiceError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		cause:      cause,
	}
}

// GetServiceError extracts a *ServiceError from err, or nil when the error
// is not one.
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}
