package repositories

import "errors"

// ErrNotFound is returned by every repository when the requested record does
// not exist. Callers distinguish it from infrastructure failures with
// errors.Is.
var ErrNotFound = errors.New("record not found")
