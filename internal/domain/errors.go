package domain

import "errors"

var (
	// ErrNotFound is returned when a mutation targets a task that does not exist
	ErrNotFound = errors.New("task not found")

	// ErrBadParamInput is returned when request parameters are invalid
	ErrBadParamInput = errors.New("invalid parameters")
)
