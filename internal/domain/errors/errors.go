// Package errors provides domain-specific errors for the gtc token counter.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for resolution and counting failures.
var (
	ErrUnknownModel     = errors.New("unknown model")
	ErrUnknownEncoding  = errors.New("unknown encoding")
	ErrNoFiles          = errors.New("no files specified")
	ErrNoMatchingFiles  = errors.New("no matching files")
	ErrFileRead         = errors.New("file read error")
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")
	ErrDecode           = errors.New("unable to decode file (not UTF-8)")
	ErrTokenizer        = errors.New("tokenizer error")
)

// ErrorCode categorizes errors for handling and reporting.
type ErrorCode string

const (
	CodeValidation    ErrorCode = "VALIDATION"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeConfiguration ErrorCode = "CONFIG"
	CodeIO            ErrorCode = "IO"
	CodeTokenizer     ErrorCode = "TOKENIZER"
)

// GtcError wraps errors with additional context for debugging and handling.
type GtcError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns a formatted error string including the code, message, and cause if present.
func (e *GtcError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for use with errors.Is and errors.As.
func (e *GtcError) Unwrap() error {
	return e.Cause
}

// NewError creates a new GtcError with the given code, message, and optional cause.
func NewError(code ErrorCode, message string, cause error) *GtcError {
	return &GtcError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds a key-value pair to the error's context and returns the error.
func WithContext(err *GtcError, key string, value interface{}) *GtcError {
	if err.Context == nil {
		err.Context = make(map[string]interface{})
	}
	err.Context[key] = value
	return err
}

// IsFatal reports whether err aborts a count before any file is processed.
// Per-file read and tokenizer failures are not fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var ge *GtcError
	if errors.As(err, &ge) {
		switch ge.Code {
		case CodeConfiguration, CodeNotFound, CodeValidation:
			return true
		case CodeTokenizer:
			return ge.Context["fatal"] == true
		}
		return false
	}
	return errors.Is(err, ErrUnknownModel) ||
		errors.Is(err, ErrUnknownEncoding) ||
		errors.Is(err, ErrNoMatchingFiles) ||
		errors.Is(err, ErrNoFiles)
}

// UserMessage returns err as shown to a user: the message of a coded
// error without its code, plus the cause for tokenizer failures.
func UserMessage(err error) string {
	var ge *GtcError
	if !errors.As(err, &ge) {
		return err.Error()
	}
	if ge.Code == CodeTokenizer && ge.Cause != nil {
		return fmt.Sprintf("%s: %v", ge.Message, ge.Cause)
	}
	return ge.Message
}
