package domain

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType is returned when a declared value is not a numeric kind
// a drag control can edit (or a record is not a struct of such values).
var ErrUnsupportedType = errors.New("unsupported tweak type")

// ErrInvalidIdentifier is returned when a group or variable name is not a valid identifier.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// ErrDuplicateIdentifier is returned when two variables of one group share a name.
var ErrDuplicateIdentifier = errors.New("duplicate identifier")

// ErrEmptyGroup is returned when a group declares no variables.
var ErrEmptyGroup = errors.New("group declares no variables")

// ErrInvalidLiteral is returned when an initial value does not parse as, or fit, its type.
var ErrInvalidLiteral = errors.New("invalid initial value")

// ErrTypeMismatch is returned when a key is declared again with a different type.
var ErrTypeMismatch = errors.New("tweak type mismatch")

// ErrPoisoned is the cause of every PoisonError.
var ErrPoisoned = errors.New("tweak storage poisoned")

// ErrWindowNotFound is returned by hosts when a window title was never rendered.
var ErrWindowNotFound = errors.New("window not found")

// ErrLabelNotFound is returned by hosts when a window has no row with the given label.
var ErrLabelNotFound = errors.New("label not found")

// ValidationError represents a single declaration failure.
type ValidationError struct {
	Key    string // Group or variable the failure belongs to
	Reason string // Human-readable reason for failure
	Err    error  // Sentinel classifying the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Key, e.Err, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AggregateError represents multiple declaration failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d declaration errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Join returns nil for no errors, the error itself for one, and an AggregateError otherwise.
func Join(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &AggregateError{Errors: errs}
	}
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// A single ValidationError is returned as a one-element slice. Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return []error{single}
	}
	return nil
}

// PoisonError reports an attempt to use storage whose previous holder panicked.
type PoisonError struct {
	Key   Key
	Cause any // Value the previous holder panicked with (nil after runtime.Goexit)
}

func (e *PoisonError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %v", e.Key, ErrPoisoned)
	}
	return fmt.Sprintf("%s: %v (holder panicked: %v)", e.Key, ErrPoisoned, e.Cause)
}

func (e *PoisonError) Unwrap() error {
	return ErrPoisoned
}
