package types

import (
	"context"
	"errors"
)

// Backend is the key-value substrate the entity layer is built on.
// Implementations guarantee atomicity for single-key operations only;
// anything wider is coordinated by the caller.
type Backend interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, overwriting any existing value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// ListKeys returns every key starting with prefix in ascending order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)

	// Close releases backend resources. Idempotent.
	Close() error
}

// Backend errors.
var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrBackendClosed = errors.New("backend is closed")
)
