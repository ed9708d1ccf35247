package model

import "errors"

// Sentinel errors shared across the calculation and lifecycle layers.
// Callers classify failures with errors.Is.
var (
	// ErrValidation marks bad calculation input. Validation failures stop
	// the single calculation and are never retried automatically.
	ErrValidation = errors.New("validation error")

	// ErrUnsupportedMethod is returned when no strategy is registered for
	// the requested calculation method.
	ErrUnsupportedMethod = errors.New("unsupported calculation method")

	// ErrNotFound is returned when a loan, charge or product is missing
	// where one is required.
	ErrNotFound = errors.New("not found")
)
