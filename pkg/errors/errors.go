// Package errors provides structured error types for tubetrend.
//
// Every failure that crosses a package boundary (the API client, the fetch
// runner, the HTTP facade) is an [*Error] carrying a machine-readable
// [Code]. Callers branch on the code instead of matching message text:
//
//	table, err := runner.Trending(ctx, opts)
//	switch {
//	case errors.Is(err, errors.ErrCodeForbidden):
//	    // invalid key or quota exceeded
//	case errors.Is(err, errors.ErrCodeNetwork):
//	    // timeout, DNS, connection refused
//	}
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND / EMPTY_RESULT: Nothing to return
//   - NETWORK_* / TIMEOUT / HTTP_ERROR / RATE_LIMITED: Transport failures
//   - UNAUTHORIZED / FORBIDDEN: Credential failures
//   - INTERNAL_*: Unexpected internal errors
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidRegion Code = "INVALID_REGION"
	ErrCodeInvalidQuery  Code = "INVALID_QUERY"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeEmptyResult Code = "EMPTY_RESULT"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeHTTP        Code = "HTTP_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Authentication errors
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeForbidden    Code = "FORBIDDEN"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
	ErrCodeDecode   Code = "DECODE_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Status  int    // Upstream HTTP status, 0 when not applicable
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// WithStatus records the upstream HTTP status on e and returns it.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// StatusOf returns the upstream HTTP status recorded on err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsAuth reports whether err is a credential failure (401 or 403).
func IsAuth(err error) bool {
	return Is(err, ErrCodeUnauthorized) || Is(err, ErrCodeForbidden)
}

// IsTransport reports whether err came from the network or a non-2xx reply.
func IsTransport(err error) bool {
	switch GetCode(err) {
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeHTTP, ErrCodeRateLimited:
		return true
	}
	return false
}

// EmptyResult reports a successful fetch that returned no videos. The
// pipeline never returns it; callers use it to tell users there is no data.
func EmptyResult(kind, region string) *Error {
	return New(ErrCodeEmptyResult, "no %s videos found for region %s", kind, region)
}
