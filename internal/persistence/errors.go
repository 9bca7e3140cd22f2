package persistence

import "errors"

var (
	// ErrNotFound is returned when no value is stored under the requested key.
	ErrNotFound = errors.New("persistence: not found")
	// ErrUnknownDriver is returned when a backend name is not recognised.
	ErrUnknownDriver = errors.New("persistence: unknown driver")
)
