// Package apperrors holds the sentinel errors shared by the checklist core.
// Callers match them with errors.Is; producers wrap them with context.
package apperrors

import "errors"

var (
	// ErrNotFound marks an unknown session, section, item, condition or rule id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks input rejected before any mutation took place.
	ErrInvalidInput = errors.New("invalid input")
)
