// Package wishlist persists a user's saved product snapshots as a single
// JSON array under one key of the injected key-value store. Every mutation
// rewrites the whole collection; concurrent writers from other processes are
// last-writer-wins by design.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sareehouse/storefront/internal/domain"
	"github.com/sareehouse/storefront/internal/kvstore"
)

// storageKey is the single persisted key holding the wishlist array.
const storageKey = "wishlist"

// Store implements domain.WishlistStore over a kvstore.Store.
type Store struct {
	kv     kvstore.Store
	logger *slog.Logger
}

// New creates a wishlist store over the given key-value store.
func New(kv kvstore.Store, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

var _ domain.WishlistStore = (*Store)(nil)

// List returns all entries in insertion order. A missing or corrupt
// persisted value is treated as an empty wishlist and never surfaced as an
// error; corruption is logged and the next mutation overwrites it.
func (s *Store) List(ctx context.Context) ([]domain.WishlistEntry, error) {
	data, err := s.kv.Get(ctx, storageKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return []domain.WishlistEntry{}, nil
		}
		return nil, fmt.Errorf("read wishlist: %w", err)
	}

	var entries []domain.WishlistEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.WarnContext(ctx, "wishlist value is corrupt, treating as empty",
			slog.String("error", err.Error()),
		)
		return []domain.WishlistEntry{}, nil
	}
	if entries == nil {
		entries = []domain.WishlistEntry{}
	}
	return entries, nil
}

// Contains reports whether an entry with the given product ID exists.
func (s *Store) Contains(ctx context.Context, productID string) (bool, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.ID == productID {
			return true, nil
		}
	}
	return false, nil
}

// Add appends a snapshot of the product unless one is already present.
// Idempotent: adding a product twice leaves a single entry.
func (s *Store) Add(ctx context.Context, product domain.Product) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.ID == product.ID {
			return nil
		}
	}

	entries = append(entries, domain.NewWishlistEntry(product))
	return s.write(ctx, entries)
}

// Remove deletes the entry with the given product ID. Removing an absent
// product is a no-op.
func (s *Store) Remove(ctx context.Context, productID string) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != productID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return s.write(ctx, kept)
}

// Clear removes every entry by deleting the persisted key.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}

// write rewrites the whole persisted collection.
func (s *Store) write(ctx context.Context, entries []domain.WishlistEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}
	if err := s.kv.Set(ctx, storageKey, data); err != nil {
		return fmt.Errorf("write wishlist: %w", err)
	}
	return nil
}
