package database

import "errors"

// ErrNotFound is returned when an existing database is required but missing.
var ErrNotFound = errors.New("history database not found")
