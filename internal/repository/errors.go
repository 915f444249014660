package repository

import "errors"

// ErrNotFound is returned when a requested run is not stored. It
// abstracts the underlying storage implementation from the service
// layer.
var ErrNotFound = errors.New("run not found")
