package utils

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad shapes, counts, parameters or precisions detected
	// before any computation starts.
	ErrValidation = errors.New("golsm: validation failed")
	// ErrShapeMismatch indicates two boxes cannot be aligned.
	ErrShapeMismatch = errors.New("golsm: shape mismatch")
	// ErrAllocation indicates a scratch or output buffer could not be provided.
	ErrAllocation = errors.New("golsm: allocation failed")
	// ErrNumericalDegeneracy indicates a stencil with no usable data.
	ErrNumericalDegeneracy = errors.New("golsm: numerical degeneracy")
)

// ValidationError names the offending argument.
type ValidationError struct {
	Arg    string
	Reason string
	Err    error // ErrValidation unless something more specific applies
}

func NewValidationError(arg, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Arg:    arg,
		Reason: fmt.Sprintf(format, args...),
		Err:    ErrValidation,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrValidation {
		return []error{ErrValidation}
	}
	return []error{e.Err, ErrValidation}
}
