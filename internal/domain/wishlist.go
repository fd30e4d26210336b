package domain

import "context"

// WishlistEntry is a denormalized snapshot of a product taken at the moment
// it was added to the wishlist. Entries are deliberately not kept in sync
// with later edits to the source product; they exist until explicitly
// removed or the store is cleared.
type WishlistEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Category string  `json:"category,omitempty"`
}

// NewWishlistEntry builds the snapshot for a product.
func NewWishlistEntry(p Product) WishlistEntry {
	return WishlistEntry{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.MainImage,
		Category: p.Category.DisplayName(),
	}
}

// WishlistStore is an order-preserving set of product snapshots keyed by
// product identifier.
type WishlistStore interface {
	// List returns all entries in insertion order. A missing or corrupt
	// persisted value yields an empty list, never an error.
	List(ctx context.Context) ([]WishlistEntry, error)

	// Contains reports whether an entry with the given product ID exists.
	Contains(ctx context.Context, productID string) (bool, error)

	// Add appends a snapshot of the product unless one is already present.
	// Adding an existing product is a no-op, not an error.
	Add(ctx context.Context, product Product) error

	// Remove deletes the entry with the given product ID if present.
	Remove(ctx context.Context, productID string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
