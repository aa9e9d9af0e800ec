package service

import "errors"

// Common errors for game-master operations.
var (
	// ErrEmptyTaskHistory is returned when an evaluation is requested for
	// a game that has no task to grade against. This is a caller error and
	// is never absorbed by the fallback policy.
	ErrEmptyTaskHistory = errors.New("no task found for this game")

	// ErrMalformedResponse indicates the model's output could not be
	// parsed into the declared schema, or violated a numeric constraint.
	// It is always absorbed into a fallback result.
	ErrMalformedResponse = errors.New("malformed model response")
)
