package store

import (
	"context"
)

// KV is the key-value backend beneath Store.
// Keys are strings; values are opaque bytes (JSON documents in practice).
// Implementations must return ErrNotFound from Txn.Get for missing keys.
type KV interface {
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(Txn) error) error
	// Update runs fn in a read-write transaction; all writes commit or none do.
	Update(ctx context.Context, fn func(Txn) error) error
	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error
	// Close releases the backend.
	Close() error
}

// Txn is a transaction handle passed to View and Update callbacks.
type Txn interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Scan calls fn for every key with the given prefix in ascending key order.
	// Returning ErrStopScan from fn ends the scan without error.
	Scan(prefix string, fn func(key string, value []byte) error) error
}

// ErrStopScan ends a Scan early.
var ErrStopScan = &Error{Code: 0, Message: "stop scan"}
