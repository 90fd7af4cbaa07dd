// Package errors provides structured error types for blueprint.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP service and the library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Layout Error Taxonomy
//
// Three codes describe problems with the diagram itself:
//   - UNRESOLVED_REFERENCE: a connection or edge names an unknown endpoint.
//     Layered diagrams skip such connections; flow graphs fail.
//   - DEGENERATE_GEOMETRY: a zero-length arrow direction. Layouts recover
//     locally by dropping the arrowhead, so this code never escapes a layout
//     call; it is used to label the recovered cases in results and logs.
//   - MALFORMED_INPUT: missing or invalid fields. Reported before any layout
//     work starts; there is no partial output.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedInput, "phase %q has no tasks", name)
//	if errors.Is(err, errors.ErrCodeMalformedInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedInput, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout errors
	ErrCodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"
	ErrCodeDegenerateGeometry  Code = "DEGENERATE_GEOMETRY"
	ErrCodeMalformedInput      Code = "MALFORMED_INPUT"

	// Request errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidKind   Code = "INVALID_KIND"
	ErrCodeNotFound      Code = "NOT_FOUND"

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

// Malformed is shorthand for New(ErrCodeMalformedInput, ...).
func Malformed(format string, args ...any) *Error {
	return New(ErrCodeMalformedInput, format, args...)
}

// Unresolved reports a reference to an endpoint that does not exist.
func Unresolved(kind, id string) *Error {
	return New(ErrCodeUnresolvedReference, "unknown %s %q", kind, id)
}
