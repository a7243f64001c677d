// Package errors provides structured error types for f1-ext-install.
//
// This package defines error codes and types that enable:
//   - Distinguishing specifier parse failures from command failures
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Parse errors are raised before any external command runs:
//   - EXPECTED_PREFIX: the specifier lacks a "builtin:" or "pecl:" prefix
//   - INVALID_SYNTAX: the name or version grammar was violated, or input was left over
//   - INVALID_ARGUMENT: wraps either of the above with the offending argument
//
// INVALID_CONFIG covers settings and environment overrides that cannot be decoded.
//
// Command errors are raised by the package manager and PHP toolchain wrappers:
//   - COMMAND_IO: the process could not be started
//   - COMMAND_EXIT: the process exited unsuccessfully or was killed by a signal
//   - COMMAND_OUTPUT: captured output was not valid UTF-8
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSyntax, "invalid extension name %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidSyntax) {
//	    // Handle parse error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCommandIO, origErr, "failed to start %s", program)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Specifier parse errors
	ErrCodeExpectedPrefix  Code = "EXPECTED_PREFIX"
	ErrCodeInvalidSyntax   Code = "INVALID_SYNTAX"
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"

	// External command errors
	ErrCodeCommandIO     Code = "COMMAND_IO"
	ErrCodeCommandExit   Code = "COMMAND_EXIT"
	ErrCodeCommandOutput Code = "COMMAND_OUTPUT"

	// Configuration errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
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

// Is reports whether any *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
