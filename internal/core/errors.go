package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a tracked file or a backup snapshot does not exist.
var ErrNotFound = errors.New("not found")

// ErrProtected is returned when an edit targets the editor's own window rule.
var ErrProtected = errors.New("rule is protected")

// IOError wraps a filesystem failure with the operation and path that caused it.
// The underlying cause stays reachable through errors.Is / errors.As.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ValidationError reports user input rejected before it reaches a model.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Invalid is shorthand for constructing a *ValidationError.
func Invalid(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
