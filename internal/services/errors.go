package services

import "errors"

var (
	// ErrDeleteFailed reports that a product passed the existence check but
	// the delete affected zero rows. This is a data race with a concurrent
	// delete and is surfaced explicitly rather than ignored.
	ErrDeleteFailed = errors.New("delete affected no rows")
	// ErrInternal hides unexpected storage failures from callers. The
	// original error is logged with full detail before this is returned.
	ErrInternal = errors.New("internal server error")
)
