package utils

import "fmt"

// PlanError tags an engine error with the operation that produced it.
type PlanError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// WrapError creates a contextual error.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &PlanError{
		Context: context,
		Cause:   cause,
	}
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *PlanError) Unwrap() error {
	return e.Cause
}
