package store

import "errors"

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates a uniqueness conflict, e.g. a second Active form in one
	// scope or a second response for the same form and target.
	ErrConflict = errors.New("conflict")

	// ErrHasResponses rejects a schema change on a form that responses already reference.
	ErrHasResponses = errors.New("form has responses")
)
