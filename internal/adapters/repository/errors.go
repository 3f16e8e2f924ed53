package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	// ErrNotFound reports that no record matched the given identifier or filter.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateGame reports a second assignment for an already-assigned game.
	ErrDuplicateGame = errors.New("duplicate game_id")

	// ErrDuplicate reports a unique-constraint violation on a user field.
	ErrDuplicate = errors.New("duplicate record")

	// ErrUnavailable reports that the local store could not be reached. It is
	// surfaced distinctly so callers can answer 503 instead of crashing the
	// request.
	ErrUnavailable = errors.New("database connection error")
)
