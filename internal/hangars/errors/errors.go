package errors

import "errors"

var (
	ErrNotFound = errors.New("hangar not found")

	ErrInvalidID = errors.New("invalid hangar ID format")
)
