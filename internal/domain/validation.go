package domain

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors maps draft field names to human-readable validation messages
type FieldErrors map[string]string

// ValidationError carries the per-field validation failures of one wizard step.
// When it is returned the session draft stays untouched.
type ValidationError struct {
	Step   WizardStep
	Fields FieldErrors
}

// NewValidationError creates an empty validation error for the given step
func NewValidationError(step WizardStep) *ValidationError {
	return &ValidationError{
		Step:   step,
		Fields: make(FieldErrors),
	}
}

// Add records a validation message for a field
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

// HasErrors returns true if at least one field failed validation
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed at step %d: %s", e.Step, strings.Join(fields, ", "))
}
