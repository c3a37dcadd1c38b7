package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors so callers can decide how to surface them
type ErrorCategory int

const (
	ErrCategoryNone    ErrorCategory = iota // No error
	ErrCategoryInput                        // Missing or unusable user input
	ErrCategoryData                         // Spreadsheet content cannot be used
	ErrCategoryMapping                      // Column mapping problems
	ErrCategoryState                        // Request targets state that no longer exists
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryInput:
		return "input"
	case ErrCategoryData:
		return "data"
	case ErrCategoryMapping:
		return "mapping"
	case ErrCategoryState:
		return "state"
	default:
		return "unknown"
	}
}

// Error represents a structured error with category and details
type Error struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: no_file, empty_sheet, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so derived copies still
// compare equal to the predefined values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithDetails returns a copy of the error with additional details
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &Error{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// Predefined errors
var (
	// Input errors
	ErrNoFile = &Error{
		Category: ErrCategoryInput,
		Code:     "no_file",
		Message:  "please select an Excel file",
	}
	ErrNotImage = &Error{
		Category: ErrCategoryInput,
		Code:     "not_image",
		Message:  "pasted content is not an image",
	}

	// Data errors
	ErrUnreadableWorkbook = &Error{
		Category: ErrCategoryData,
		Code:     "unreadable_workbook",
		Message:  "failed to read Excel file, please check the file format",
	}
	ErrSheetNotFound = &Error{
		Category: ErrCategoryData,
		Code:     "sheet_not_found",
		Message:  "sheet not found",
	}
	ErrEmptySheet = &Error{
		Category: ErrCategoryData,
		Code:     "empty_sheet",
		Message:  "no data found in Excel",
	}
	ErrNoColumns = &Error{
		Category: ErrCategoryData,
		Code:     "no_columns",
		Message:  "sheet has no columns to map",
	}

	// Mapping errors
	ErrInvalidMapping = &Error{
		Category: ErrCategoryMapping,
		Code:     "invalid_mapping",
		Message:  "invalid mapping JSON",
	}
	ErrUnknownHeader = &Error{
		Category: ErrCategoryMapping,
		Code:     "unknown_header",
		Message:  "header is not present in the imported sheet",
	}

	// State errors
	ErrStaleTarget = &Error{
		Category: ErrCategoryState,
		Code:     "stale_target",
		Message:  "test case or step no longer exists",
	}
	ErrNotLoaded = &Error{
		Category: ErrCategoryState,
		Code:     "not_loaded",
		Message:  "no test cases loaded",
	}
)

// NewError creates a new Error with the given parameters
func NewError(category ErrorCategory, code, message string) *Error {
	return &Error{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// CategoryOf returns the category of the first *Error in err's chain.
func CategoryOf(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ErrCategoryNone
}
