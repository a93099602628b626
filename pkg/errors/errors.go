// Package errors provides structured error types for bottlenose.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and gateway
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Caller input rejected before any I/O (validation errors)
//   - MISSING_*: Required configuration is absent
//   - NETWORK_*, TIMEOUT, RATE_LIMITED: Transport failures
//   - INTERNAL_*: Unexpected internal errors
//
// A parameter a provider no longer accepts is reported with
// [ErrCodeInvalidParameter]; an unknown region or domain with
// [ErrCodeInvalidRegion]. Both are raised before any cache lookup or network
// activity.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidParameter, "the %q parameter is not supported", key)
//	if errors.Is(err, errors.ErrCodeInvalidParameter) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"
	ErrCodeInvalidOperation Code = "INVALID_OPERATION"
	ErrCodeInvalidURL       Code = "INVALID_URL"

	// Provider configuration errors
	ErrCodeInvalidRegion      Code = "INVALID_REGION"
	ErrCodeMissingCredentials Code = "MISSING_CREDENTIALS"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"
	ErrCodeNotFound    Code = "NOT_FOUND"

	// Authentication errors
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeForbidden    Code = "FORBIDDEN"

	// Cache and response handling
	ErrCodeCache        Code = "CACHE_ERROR"
	ErrCodeDecode       Code = "DECODE_ERROR"
	ErrCodeParse        Code = "PARSE_ERROR"
	ErrCodeBodyTooLarge Code = "RESPONSE_TOO_LARGE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
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

// IsValidation reports whether err was raised while checking caller input,
// before any cache or network activity.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidParameter, ErrCodeInvalidOperation, ErrCodeInvalidURL:
		return true
	}
	return false
}

// IsProviderConfig reports whether err describes a provider that cannot
// build a well-formed request (unknown region, missing credentials).
func IsProviderConfig(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidRegion, ErrCodeMissingCredentials, ErrCodeInvalidConfig:
		return true
	}
	return false
}
