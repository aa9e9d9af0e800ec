package registry

import "errors"

// Common errors for registry operations.
var (
	// ErrGameNotFound is returned when a game identifier has no live context.
	ErrGameNotFound = errors.New("game not found")
)
