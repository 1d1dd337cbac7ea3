package core

import (
	"errors"
	"strings"
	"time"

	"github.com/valter-silva-au/todo/pkg/models"
)

// User-facing validation messages.
const (
	MsgFieldsRequired = "Title and Description are required!"
	MsgDueDateTooLate = "Due date cannot be after " + models.MaxDueDate + "!"
	MsgDueDateInvalid = "Due date must be a YYYY-MM-DD date!"
)

var maxDueDate = mustParseDate(models.MaxDueDate)

// ValidationError reports input that was rejected before any state changed.
// Its message is meant to be shown to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err (or anything it wraps) is a
// *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateTaskInput checks the fields shared by add and update. Title and
// description are checked first, then the due date.
func ValidateTaskInput(title, description, dueDate string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: MsgFieldsRequired}
	}
	if strings.TrimSpace(description) == "" {
		return &ValidationError{Field: "description", Message: MsgFieldsRequired}
	}

	dueDate = strings.TrimSpace(dueDate)
	if dueDate == "" {
		return nil
	}
	due, ok := ParseDueDate(dueDate)
	if !ok {
		return &ValidationError{Field: "dueDate", Message: MsgDueDateInvalid}
	}
	if due.After(maxDueDate) {
		return &ValidationError{Field: "dueDate", Message: MsgDueDateTooLate}
	}
	return nil
}

// ParseDueDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDueDate(s string) (time.Time, bool) {
	t, err := time.Parse(models.DueDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func mustParseDate(s string) time.Time {
	t, err := time.Parse(models.DueDateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
