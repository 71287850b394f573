package domain

import "errors"

// Sentinel errors surfaced by repositories and validation.
var (
	// ErrNotFound is returned when a record does not exist or belongs to
	// another owner.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is returned when required input is missing or invalid
	// before any computation runs.
	ErrValidation = errors.New("validation failed")
)
