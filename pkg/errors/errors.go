// Package errors provides structured error types for imagegrid.
//
// Every failure the grid builder can produce carries a machine-readable
// [Code]. Fatal codes abort a run; [ErrCodePerFile] marks a recoverable,
// per-item failure that only excludes one file from one stage.
//
// # Error Codes
//
//   - CONFIG_ERROR: missing input directory, unusable output location, bad options
//   - NO_VALID_IMAGES: nothing to put on the sheet
//   - CANVAS_ALLOCATION: the requested canvas cannot be constructed
//   - SAVE_ERROR: encoding or writing the sheet failed
//   - PER_FILE_ERROR: decode, resize, convert, paste, label or copy of one file failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "input folder %q not found", dir)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // Handle configuration error
//	}
//
//	err := errors.Wrap(errors.ErrCodeSave, origErr, "save %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Fatal errors
	ErrCodeConfig           Code = "CONFIG_ERROR"
	ErrCodeNoValidImages    Code = "NO_VALID_IMAGES"
	ErrCodeCanvasAllocation Code = "CANVAS_ALLOCATION"
	ErrCodeSave             Code = "SAVE_ERROR"

	// Recoverable errors
	ErrCodePerFile Code = "PER_FILE_ERROR"

	// Generic errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
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
// It unwraps the error chain looking for an *Error or *FileError with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var fe *FileError
	if errors.As(err, &fe) {
		return fe.Code()
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
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// FileError records a recoverable failure of one file in one stage.
type FileError struct {
	File  string // Base name of the offending file
	Stage string // Stage that failed: decode, resize, convert, paste, label, copy
	Err   error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.File, e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FileError) Unwrap() error {
	return e.Err
}

// Code returns the error code for this error type.
func (e *FileError) Code() Code {
	return ErrCodePerFile
}
