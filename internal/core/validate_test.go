package core

import (
	"fmt"
	"testing"
)

func TestValidateTaskInput(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		due         string
		wantMsg     string
		wantField   string
	}{
		{name: "valid without due date", title: "Buy milk", description: "2%"},
		{name: "valid with due date", title: "Buy milk", description: "2%", due: "2025-01-01"},
		{name: "upper bound inclusive", title: "a", description: "b", due: "2031-12-31"},
		{name: "whitespace due date treated as unset", title: "a", description: "b", due: "   "},
		{name: "empty title", title: "", description: "b", wantMsg: MsgFieldsRequired, wantField: "title"},
		{name: "whitespace title", title: " \t\n", description: "b", wantMsg: MsgFieldsRequired, wantField: "title"},
		{name: "empty description", title: "a", description: "", wantMsg: MsgFieldsRequired, wantField: "description"},
		{name: "whitespace description", title: "a", description: "   ", wantMsg: MsgFieldsRequired, wantField: "description"},
		{name: "title checked before date", title: "", description: "b", due: "2099-01-01", wantMsg: MsgFieldsRequired, wantField: "title"},
		{name: "past upper bound", title: "a", description: "b", due: "2032-01-01", wantMsg: MsgDueDateTooLate, wantField: "dueDate"},
		{name: "malformed due date", title: "a", description: "b", due: "next tuesday", wantMsg: MsgDueDateInvalid, wantField: "dueDate"},
		{name: "impossible calendar date", title: "a", description: "b", due: "2025-02-30", wantMsg: MsgDueDateInvalid, wantField: "dueDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTaskInput(tt.title, tt.description, tt.due)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.wantMsg)
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if ve.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", ve.Message, tt.wantMsg)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestIsValidationError_Wrapped(t *testing.T) {
	err := fmt.Errorf("adding task: %w", &ValidationError{Field: "title", Message: MsgFieldsRequired})
	if !IsValidationError(err) {
		t.Error("expected wrapped ValidationError to be detected")
	}
	if IsValidationError(errDiskFull) {
		t.Error("expected plain error not to be a ValidationError")
	}
}

func TestParseDueDate(t *testing.T) {
	d, ok := ParseDueDate(" 2031-12-31 ")
	if !ok {
		t.Fatal("expected date to parse")
	}
	if d.Year() != 2031 || d.Month() != 12 || d.Day() != 31 {
		t.Errorf("parsed %v", d)
	}
	if _, ok := ParseDueDate(""); ok {
		t.Error("expected empty string not to parse")
	}
}
