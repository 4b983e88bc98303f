// Package errors provides structured error types for the sankey renderer.
//
// Every failure that aborts a render call carries a machine-readable [Code]
// so the CLI and the HTTP API can report it consistently:
//
//   - Input validation failures (EMPTY_INPUT, DUPLICATE_NODE_NAME, ...)
//   - Canvas and configuration problems (INVALID_CANVAS, INVALID_CONFIG)
//   - Output selection problems (INVALID_FORMAT, INVALID_VIZ_TYPE)
//   - Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDanglingEdge, "edge %s->%s: unknown target", src, dst)
//	if errors.Is(err, errors.ErrCodeDanglingEdge) {
//	    // Handle bad input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Flow graph validation errors
	ErrCodeEmptyInput       Code = "EMPTY_INPUT"
	ErrCodeDanglingEdge     Code = "DANGLING_EDGE_REFERENCE"
	ErrCodeDuplicateNode    Code = "DUPLICATE_NODE_NAME"
	ErrCodeCapacityOverflow Code = "CAPACITY_OVERFLOW"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"

	// Rendering configuration errors
	ErrCodeInvalidCanvas  Code = "INVALID_CANVAS"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidVizType Code = "INVALID_VIZ_TYPE"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// IsInputError reports whether err was caused by the caller's graph or options
// rather than by the renderer itself.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeEmptyInput, ErrCodeDanglingEdge, ErrCodeDuplicateNode,
		ErrCodeCapacityOverflow, ErrCodeInvalidInput,
		ErrCodeInvalidCanvas, ErrCodeInvalidConfig, ErrCodeInvalidFormat,
		ErrCodeInvalidVizType, ErrCodeInvalidPath:
		return true
	}
	return false
}
