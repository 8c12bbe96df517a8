package types

import "errors"

// Entity errors.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrInvalidID = errors.New("invalid entity ID")
)

// ErrEmptyReturning is returned when a remote insert yields no row.
var ErrEmptyReturning = errors.New("remote insert returned no row")
