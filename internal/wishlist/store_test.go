package wishlist

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sareehouse/storefront/internal/domain"
	"github.com/sareehouse/storefront/internal/kvstore/memory"
)

func newTestStore() *Store {
	return New(memory.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleProduct(id, name string, price float64) domain.Product {
	return domain.Product{
		ID:        id,
		Name:      name,
		Price:     price,
		MainImage: "https://cdn.example.com/" + id + ".jpg",
		Category:  domain.CategoryRef{Name: "Silk Sarees", Slug: "silk-sarees"},
	}
}

func TestListEmptyWhenNothingStored(t *testing.T) {
	s := newTestStore()

	entries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestAddIsIdempotent(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	p := sampleProduct("p1", "Kanchipuram Silk", 4999)

	require.NoError(t, s.Add(ctx, p))
	require.NoError(t, s.Add(ctx, p))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0].ID)
	assert.Equal(t, "Kanchipuram Silk", entries[0].Name)
	assert.Equal(t, "Silk Sarees", entries[0].Category)
}

func TestAddThenRemoveRestoresOriginalState(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sampleProduct("p1", "A", 100)))
	before, err := s.List(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Add(ctx, sampleProduct("p2", "B", 200)))
	require.NoError(t, s.Remove(ctx, "p2"))

	after, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sampleProduct("p1", "A", 100)))
	require.NoError(t, s.Remove(ctx, "missing"))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInsertionOrderPreserved(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sampleProduct("p3", "C", 300)))
	require.NoError(t, s.Add(ctx, sampleProduct("p1", "A", 100)))
	require.NoError(t, s.Add(ctx, sampleProduct("p2", "B", 200)))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"p3", "p1", "p2"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestContains(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, sampleProduct("p1", "A", 100)))

	in, err := s.Contains(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, in)

	in, err = s.Contains(ctx, "p2")
	require.NoError(t, err)
	assert.False(t, in)
}

func TestCorruptValueTreatedAsEmpty(t *testing.T) {
	kv := memory.New()
	s := New(kv, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "wishlist", []byte("{not json")))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The next mutation overwrites the corrupt value.
	require.NoError(t, s.Add(ctx, sampleProduct("p1", "A", 100)))
	entries, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestClear(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sampleProduct("p1", "A", 100)))
	require.NoError(t, s.Add(ctx, sampleProduct("p2", "B", 200)))
	require.NoError(t, s.Clear(ctx))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
