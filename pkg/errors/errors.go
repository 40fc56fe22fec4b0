// Package errors provides structured error types for apiviz.
//
// Every failure that crosses a package boundary carries a [Code] so that the
// CLI (and any embedding host) can tell a rejected diagram apart from a broken
// pipe or a missing renderer without string matching.
//
// # Error Codes
//
//   - INVALID_*: input validation failures
//   - RENDERER_*: failures talking to the Graphviz renderer
//   - RESOURCE: the bundled tags file could not be materialized
//   - TIMEOUT: an opt-in render bound expired
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPath, "base name %q contains a path separator", name)
//	if errors.Is(err, errors.ErrCodeInvalidPath) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeRendererIO, origErr, "write diagram to %s", exe)
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
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Renderer errors
	ErrCodeRendererUnavailable Code = "RENDERER_UNAVAILABLE"
	ErrCodeRendererIO          Code = "RENDERER_IO"
	ErrCodeRendererExit        Code = "RENDERER_EXIT"
	ErrCodeRendererSyntax      Code = "RENDERER_SYNTAX"

	// Startup errors
	ErrCodeResource Code = "RESOURCE"
	ErrCodeConfig   Code = "CONFIG"

	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// ExitError reports a renderer that ran to completion with a non-zero status.
// It is always the Cause of an ErrCodeRendererExit *Error.
type ExitError struct {
	Executable string
	Status     int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with a non-zero return value: %d", e.Executable, e.Status)
}

// ExitStatus returns the renderer exit status carried by err, if any.
func ExitStatus(err error) (int, bool) {
	var e *ExitError
	if errors.As(err, &e) {
		return e.Status, true
	}
	return 0, false
}
