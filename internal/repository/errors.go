package repository

import "errors"

// ErrNotFound is returned when a row referenced by id does not exist.
// Services translate it to a NOT_FOUND domain error.
var ErrNotFound = errors.New("record not found")
