// Package repositories provides PostgreSQL data access for users, files and
// analytics entries.
package repositories

import "errors"

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate means an insert violated a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
)
