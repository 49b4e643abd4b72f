package repository

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
// Callers should test with errors.Is since repositories wrap it with context.
var ErrNotFound = errors.New("not found")
