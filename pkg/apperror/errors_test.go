package apperror

import (
	"errors"
	"fmt"
	"testing"
)

// TestError_Error verifies that the Error() method returns the correct string format.
func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "without field",
			err:      New(CodeLoadFailed, "not a workbook"),
			expected: "[LOAD_FAILED] not a workbook",
		},
		{
			name:     "with field",
			err:      NewWithField(CodeMissingColumn, "column not found", "PRODUCT_NAME"),
			expected: "[MISSING_COLUMN] column not found (field: PRODUCT_NAME)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := Wrap(cause, CodeLoadFailed, "cannot open workbook")

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see the cause through Unwrap")
	}
}

// TestError_Stage verifies every code maps to its pipeline stage.
func TestError_Stage(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want Stage
	}{
		{CodeIncompleteInput, StageInput},
		{CodeInvalidArgument, StageInput},
		{CodeLoadFailed, StageLoad},
		{CodeMalformedCell, StageParse},
		{CodeMissingSheet, StageSchema},
		{CodeMissingColumn, StageSchema},
		{CodeRenderFailed, StageRender},
		{CodeInternal, StageInternal},
		{ErrorCode("SOMETHING_ELSE"), StageInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New(tt.code, "x").Stage(); got != tt.want {
				t.Errorf("Stage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	err := New(CodeIncompleteInput, "missing workbooks")

	if err.Code != CodeIncompleteInput {
		t.Errorf("Code = %v, want %v", err.Code, CodeIncompleteInput)
	}
	if err.Message != "missing workbooks" {
		t.Errorf("Message = %v, want %v", err.Message, "missing workbooks")
	}
	if err.Severity != SeverityError {
		t.Errorf("Severity = %v, want %v", err.Severity, SeverityError)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeMalformedCell, "cannot parse").
		WithDetails("sheet", "Sheet 4").
		WithDetails("row", 7)

	if err.Details["sheet"] != "Sheet 4" {
		t.Errorf("Details[sheet] = %v, want Sheet 4", err.Details["sheet"])
	}
	if err.Details["row"] != 7 {
		t.Errorf("Details[row] = %v, want 7", err.Details["row"])
	}
}

func TestWithFieldAndSeverity(t *testing.T) {
	err := New(CodeMissingSheet, "sheet not found").
		WithField("format").
		WithSeverity(SeverityCritical)

	if err.Field != "format" {
		t.Errorf("Field = %v, want format", err.Field)
	}
	if err.Severity != SeverityCritical {
		t.Errorf("Severity = %v, want %v", err.Severity, SeverityCritical)
	}
	if err.Severity.String() != "critical" {
		t.Errorf("Severity.String() = %v, want critical", err.Severity.String())
	}
}

func TestSeverityOf(t *testing.T) {
	wrapped := fmt.Errorf("render: %w", New(CodeRenderFailed, "disk full").WithSeverity(SeverityCritical))
	if got := SeverityOf(wrapped); got != SeverityCritical {
		t.Errorf("SeverityOf() = %v, want %v", got, SeverityCritical)
	}
	if got := SeverityOf(New(CodeMalformedCell, "cannot parse")); got != SeverityError {
		t.Errorf("SeverityOf() = %v, want %v", got, SeverityError)
	}
	if got := SeverityOf(errors.New("plain")); got != SeverityError {
		t.Errorf("SeverityOf() for plain error = %v, want %v", got, SeverityError)
	}
}

func TestIsAndCode(t *testing.T) {
	err := fmt.Errorf("variant workbook: %w", New(CodeMissingSheet, "sheet not found"))

	if !Is(err, CodeMissingSheet) {
		t.Error("Is() should return true for matching code through wrapping")
	}
	if Is(err, CodeMissingColumn) {
		t.Error("Is() should return false for non-matching code")
	}
	if Code(err) != CodeMissingSheet {
		t.Errorf("Code() = %v, want %v", Code(err), CodeMissingSheet)
	}
	if Code(errors.New("regular")) != CodeInternal {
		t.Errorf("Code() for regular error = %v, want %v", Code(errors.New("regular")), CodeInternal)
	}
	if StageOf(err) != StageSchema {
		t.Errorf("StageOf() = %v, want %v", StageOf(err), StageSchema)
	}
}

func TestUserMessage(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if got := UserMessage(nil); got != "" {
			t.Errorf("UserMessage(nil) = %q, want empty", got)
		}
	})

	t.Run("plain error", func(t *testing.T) {
		if got := UserMessage(errors.New("boom")); got != "internal: boom" {
			t.Errorf("UserMessage() = %q", got)
		}
	})

	t.Run("details sorted", func(t *testing.T) {
		err := New(CodeMalformedCell, "cannot parse percent").
			WithDetails("sheet", "Sheet 4").
			WithDetails("row", 3).
			WithDetails("raw", "abc")

		want := "parse: cannot parse percent (raw=abc, row=3, sheet=Sheet 4)"
		if got := UserMessage(err); got != want {
			t.Errorf("UserMessage() = %q, want %q", got, want)
		}
	})

	t.Run("incomplete input", func(t *testing.T) {
		err := New(CodeIncompleteInput, "missing workbooks: master, product")
		want := "input: missing workbooks: master, product"
		if got := UserMessage(err); got != want {
			t.Errorf("UserMessage() = %q, want %q", got, want)
		}
	})
}
