// Package kvstore provides the injectable key-value storage abstraction
// behind all durable local state (wishlist, admin session). Production uses
// the Redis backend; tests use the in-memory one.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a minimal durable key-value store.
type Store interface {
	// Get returns the value for the key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the value for the key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
