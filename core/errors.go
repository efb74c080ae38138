package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is client input rejected after binding, e.g. a key that is already taken.
// It renders as a field map when Fields is set; errors.Is still sees Err.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// NewFieldError builds a ValidationError reporting err on a single field.
func NewFieldError(field string, err error) error {
	return NewValidationError(err, FieldError{Field: field, Error: err.Error()})
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return "validation failed"
	}
	return err.Err.Error()
}

func (err *ValidationError) Unwrap() error {
	return err.Err
}

// shutdown flags a broken invariant in stored data; the API stops instead of serving it.
type shutdown struct {
	message string
	err     error
}

// NewShutdownError returns an error that asks the API process to stop gracefully.
func NewShutdownError(err error, format string, args ...interface{}) error {
	return &shutdown{message: fmt.Sprintf(format, args...), err: err}
}

func (s *shutdown) Error() string {
	if s.err == nil {
		return s.message
	}
	return s.message + ": " + s.err.Error()
}

func (s *shutdown) Unwrap() error {
	return s.err
}

func IsShutdown(err error) bool {
	var s *shutdown
	return errors.As(err, &s)
}
