// Package errors provides structured error types for ccreverse.
//
// Reconstruction is best effort: a record that cannot be resolved is skipped
// and logged, never returned as an error. The errors defined here are the
// ones that abort a run, such as a missing resource directory or a settings
// script that cannot be parsed, plus validation failures on user input.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: the user's input or build is unusable (exit status 2)
//   - FILE_NOT_FOUND: a required file is missing (exit status 2)
//   - CANCELED: the run was interrupted (exit status 130)
//   - IO_ERROR, INTERNAL_ERROR: unexpected failures (exit status 1)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPath, "resource directory not found: %s", dir)
//	if errors.Is(err, errors.ErrCodeInvalidPath) {
//	    // Handle missing input
//	}
//
//	// Wrap existing errors, naming the file involved
//	err := errors.Wrap(errors.ErrCodeInvalidSettings, origErr, "parse settings").WithPath(path)
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidSettings Code = "INVALID_SETTINGS"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidName     Code = "INVALID_NAME"

	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeCanceled Code = "CANCELED"

	// Internal errors
	ErrCodeIO       Code = "IO_ERROR"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Process exit statuses returned by [ExitCode].
const (
	ExitFailure  = 1
	ExitUsage    = 2
	ExitCanceled = 130
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Path    string // File the error concerns (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithPath sets the file the error concerns and returns e.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
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

// Canceled wraps the error of an ended context. The result still matches
// context.Canceled or context.DeadlineExceeded with the standard errors.Is.
func Canceled(ctx context.Context, stage string) *Error {
	return Wrap(ErrCodeCanceled, ctx.Err(), "%s interrupted", stage)
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

// UserMessage returns the message of err without its code, prefixed with
// the path when one is set. Other errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Path != "" {
			return e.Path + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}

// ExitCode maps err to a process exit status: 0 for nil, 130 for an
// interrupted run, 2 for unusable input and 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled), Is(err, ErrCodeCanceled):
		return ExitCanceled
	}
	code := GetCode(err)
	if code == ErrCodeFileNotFound || strings.HasPrefix(string(code), "INVALID_") {
		return ExitUsage
	}
	return ExitFailure
}
