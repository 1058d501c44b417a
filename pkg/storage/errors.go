package storage

import "errors"

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a record violates a uniqueness
	// constraint, such as a duplicate user name.
	ErrConflict = errors.New("record already exists")
)
