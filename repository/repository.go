package repository

import "errors"

// ErrNotFound is returned by all repositories when a document does not
// exist, so services never have to know which store backs them.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique key is violated.
var ErrDuplicate = errors.New("duplicate record")
