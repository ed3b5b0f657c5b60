package repository

import "errors"

var (
	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("repository: duplicate")
)
