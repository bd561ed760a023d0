package repository

import "errors"

// ErrNotFound is returned when a lookup target has no local counterpart.
var ErrNotFound = errors.New("not found")
