package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrExperimentNotFound = fmt.Errorf("%w: experiment", ErrNotFound)
	ErrComparisonNotFound = fmt.Errorf("%w: comparison study", ErrNotFound)

	// Validation errors
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyInput        = errors.New("empty input")
	ErrNegativeCount     = fmt.Errorf("%w: confusion matrix counts must be non-negative", ErrInvalidInput)
	ErrZeroMatrix        = fmt.Errorf("%w: all confusion matrix values cannot be zero", ErrInvalidInput)
	ErrLengthMismatch    = fmt.Errorf("%w: rater sequences must have the same length", ErrInvalidInput)
	ErrTooFewExperiments = fmt.Errorf("%w: at least 2 experiments are required for comparison", ErrInvalidInput)

	// Lookup errors
	ErrUnknownTechnique = fmt.Errorf("%w: unknown technique", ErrInvalidInput)
	ErrUnknownMethod    = fmt.Errorf("%w: unknown correction method", ErrInvalidInput)
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: validation failed for %s: %s", ErrInvalidInput, field, reason)
}

func NewUnknownTechniqueError(technique string) error {
	return fmt.Errorf("%w: %s", ErrUnknownTechnique, technique)
}

func NewUnknownMethodError(method string) error {
	return fmt.Errorf("%w: %s", ErrUnknownMethod, method)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsEmptyInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}
