package openlibrary

import (
	"errors"
	"fmt"
)

// Sentinel errors for Open Library operations.
var (
	ErrNotFound    = errors.New("openlibrary: not found")
	ErrRateLimited = errors.New("openlibrary: rate limited by server")
	ErrBadRequest  = errors.New("openlibrary: bad request")
	ErrServer      = errors.New("openlibrary: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // "search", "subject", "isbn"
	Key string // Query, subject, or ISBN
	Err error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("openlibrary %s [%s]: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("openlibrary %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, key string, err error) error {
	return &Error{Op: op, Key: key, Err: err}
}
