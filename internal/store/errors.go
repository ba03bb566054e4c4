package store

import "errors"

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned when an identifier is not a valid object id.
var ErrInvalidID = errors.New("invalid id")

// ErrDuplicateUser is returned when a username is already taken.
var ErrDuplicateUser = errors.New("user already exists")
