package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Category: ErrCategoryData,
		Code:     "test_error",
		Message:  "test message",
	}

	if got := err.Error(); got != "test message" {
		t.Errorf("Error() = %q, want %q", got, "test message")
	}
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := ErrUnreadableWorkbook.WithCause(cause)

	got := err.Error()
	if !strings.Contains(got, "failed to read Excel file") {
		t.Errorf("Error() = %q, should contain the message", got)
	}
	if !strings.Contains(got, "not a valid zip file") {
		t.Errorf("Error() = %q, should contain the cause", got)
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	derived := ErrEmptySheet.WithMessage("sheet Runs has no rows")
	wrapped := fmt.Errorf("import: %w", derived)

	if !errors.Is(wrapped, ErrEmptySheet) {
		t.Error("errors.Is should match derived copies by code")
	}
	if errors.Is(wrapped, ErrNoColumns) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestError_WithDetails(t *testing.T) {
	original := ErrSheetNotFound.WithDetails(map[string]interface{}{"sheet": "A"})
	merged := original.WithDetails(map[string]interface{}{"available": 2})

	if merged.Details["sheet"] != "A" || merged.Details["available"] != 2 {
		t.Errorf("WithDetails() did not merge: %v", merged.Details)
	}
	if len(ErrSheetNotFound.Details) != 0 {
		t.Error("WithDetails() must not modify the predefined error")
	}
}

func TestCategoryOf(t *testing.T) {
	if got := CategoryOf(fmt.Errorf("x: %w", ErrStaleTarget)); got != ErrCategoryState {
		t.Errorf("CategoryOf() = %v, want state", got)
	}
	if got := CategoryOf(errors.New("plain")); got != ErrCategoryNone {
		t.Errorf("CategoryOf() = %v, want none", got)
	}
}

func TestErrorCategory_String(t *testing.T) {
	tests := []struct {
		cat  ErrorCategory
		want string
	}{
		{ErrCategoryNone, "none"},
		{ErrCategoryInput, "input"},
		{ErrCategoryData, "data"},
		{ErrCategoryMapping, "mapping"},
		{ErrCategoryState, "state"},
		{ErrorCategory(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}
