package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Document errors
	ErrDocumentRead    ErrorCode = "DOCUMENT_READ"
	ErrInvalidDocument ErrorCode = "INVALID_DOCUMENT"

	// Compilation errors
	ErrStyleResolution    ErrorCode = "STYLE_RESOLUTION"
	ErrUnknownTextNode    ErrorCode = "UNKNOWN_TEXT_NODE"
	ErrStructuralMismatch ErrorCode = "STRUCTURAL_MISMATCH"
	ErrInsufficientWidth  ErrorCode = "INSUFFICIENT_WIDTH"
	ErrMinWidthViolation  ErrorCode = "MIN_WIDTH_VIOLATION"
	ErrNegativeWidth      ErrorCode = "NEGATIVE_WIDTH"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Output errors
	ErrOutputWrite ErrorCode = "OUTPUT_WRITE"
)

// Detail keys shared by the packages that report document locations.
const (
	DetailPath   = "path"
	DetailRow    = "row"
	DetailColumn = "column"
	DetailWidth  = "width"
	DetailStyle  = "style"
)

// Error is a structured error with a stable code, a message, and the context
// needed to locate the offending document fragment.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if path, ok := e.Details[DetailPath].(string); ok && path != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Code, path, e.Message)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	return msg
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an Error
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithinPath prefixes the document location recorded on err with parent,
// so errors raised deep in the tree end up with their full path
// ("content[1].rows[0][2]"). Errors that are not *Error pass through.
func WithinPath(err error, parent string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	existing, _ := e.Details[DetailPath].(string)
	switch {
	case existing == "":
		e.WithDetail(DetailPath, parent)
	case strings.HasPrefix(existing, "["):
		e.WithDetail(DetailPath, parent+existing)
	default:
		e.WithDetail(DetailPath, parent+"."+existing)
	}
	return err
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an Error
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an Error
func GetErrorDetails(err error) map[string]interface{} {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// FormatDetails renders the details of an error as sorted key=value pairs,
// skipping the path which is already part of the message.
func FormatDetails(err error) string {
	details := GetErrorDetails(err)
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		if k == DetailPath {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return strings.Join(parts, " ")
}
