// Package errors provides shared error types for the Wikipedia client.
package errors

import (
	"errors"
	"fmt"
)

// RemoteFetchError indicates the Wikipedia API could not be reached or
// answered with an unexpected status. It is never retried.
type RemoteFetchError struct {
	Endpoint   string // "page/html", "page/summary", "search", ...
	StatusCode int    // zero for transport-level failures
	StatusText string // e.g. "Not Found"
	Cause      error  // underlying transport error, if any
}

func (e *RemoteFetchError) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf("Wikipedia API error: %d", e.StatusCode)
		if e.StatusText != "" {
			msg += " " + e.StatusText
		}
		if e.Cause != nil {
			msg += ": " + e.Cause.Error()
		}
		return msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("Wikipedia API request failed: %v", e.Cause)
	}
	return "Wikipedia API request failed"
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Cause
}

// NewStatusError creates a RemoteFetchError for an unexpected HTTP status.
func NewStatusError(endpoint string, statusCode int, statusText string) *RemoteFetchError {
	return &RemoteFetchError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		StatusText: statusText,
	}
}

// NewTransportError creates a RemoteFetchError for a network-level failure.
func NewTransportError(endpoint string, cause error) *RemoteFetchError {
	return &RemoteFetchError{
		Endpoint: endpoint,
		Cause:    cause,
	}
}

// ValidationError indicates invalid input parameters.
type ValidationError struct {
	Field   string // field name that failed validation
	Value   string // the invalid value (may be empty)
	Message string // human-readable error message
}

func (e *ValidationError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("validation failed for %s=%q: %s", e.Field, e.Value, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsRemoteFetch returns true if err is or wraps a RemoteFetchError.
func IsRemoteFetch(err error) bool {
	var target *RemoteFetchError
	return errors.As(err, &target)
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// StatusCode extracts the HTTP status from a RemoteFetchError chain,
// or returns 0 if there is none.
func StatusCode(err error) int {
	var target *RemoteFetchError
	if errors.As(err, &target) {
		return target.StatusCode
	}
	return 0
}
