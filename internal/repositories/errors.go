package repositories

import "errors"

var (
	// ErrNotFound is returned when the requested id or term has no match.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates the unique title or slug
	// constraint. Storage-level duplicate-key errors are translated to it here
	// so callers never see driver codes.
	ErrConflict = errors.New("title or slug already exists")
)
