package repository

import "errors"

var (
	// ErrNotFound indicates an entity was not located.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates a uniqueness constraint rejected a write.
	ErrConflict = errors.New("repository: unique constraint violated")
	// ErrInvalidArgument indicates a malformed lookup or record.
	ErrInvalidArgument = errors.New("repository: invalid argument")
)
