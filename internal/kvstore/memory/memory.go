package memory

import (
	"context"
	"sync"

	"github.com/sareehouse/storefront/internal/kvstore"
)

// Store implements kvstore.Store using an in-memory map. Used in tests and
// as a fallback when no Redis is configured.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates an in-memory key-value store.
func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Get returns the value for the key, or kvstore.ErrNotFound.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, kvstore.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set writes the value for the key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	return nil
}

// Delete removes the key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
