package repository

import "errors"

// ErrNotFound is returned when a scoped lookup or update matches no row.
var ErrNotFound = errors.New("not found")
