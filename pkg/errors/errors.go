// Package errors provides structured error types for kfmtool.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the codec, patch engine and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Each code names a failure category from the asset pipeline:
//   - INVALID_FORMAT: malformed, truncated or unrecognized binary input
//   - ENCODING: a value that cannot be represented on the write path
//   - DUPLICATE_ID, CONFLICT, NOT_FOUND: id-keyed graph integrity failures
//   - INVALID_*: bad user input (paths, patch files)
//
// Leaf failures carry a code; callers add "while doing X" context with
// fmt.Errorf and %w. [Is] walks the whole chain, so the code survives any
// amount of wrapping:
//
//	err := errors.New(errors.ErrCodeFormat, "unexpected magic %q", magic)
//	err = fmt.Errorf("read header: %w", err)
//	if errors.Is(err, errors.ErrCodeFormat) {
//	    // Handle malformed input
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Binary format errors
	ErrCodeFormat   Code = "INVALID_FORMAT"
	ErrCodeEncoding Code = "ENCODING"

	// Graph integrity errors
	ErrCodeDuplicateID Code = "DUPLICATE_ID"
	ErrCodeConflict    Code = "CONFLICT"
	ErrCodeNotFound    Code = "NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

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
// It unwraps the error chain looking for an *Error with a matching code,
// so an outer *Error with a different code does not hide an inner one.
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
// Returns empty string if the chain contains no *Error.
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
