package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidOrder = errors.New("invalid item order")
	ErrNotTrained   = errors.New("model is not trained")
)

// FieldError describes one rejected input field
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// ValidationError is returned when user input fails validation
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Msg: msg}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TrainingError is a failed training run with a hint for the operator
type TrainingError struct {
	Err        error
	Suggestion string
}

func (e *TrainingError) Error() string { return "training failed: " + e.Err.Error() }
func (e *TrainingError) Unwrap() error { return e.Err }
