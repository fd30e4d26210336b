package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sareehouse/storefront/internal/cache"
	"github.com/sareehouse/storefront/internal/domain"
)

type countingReader struct {
	products     []domain.Product
	categories   []domain.Category
	productCalls int
}

func (r *countingReader) ListProducts(ctx context.Context) ([]domain.Product, error) {
	r.productCalls++
	return r.products, nil
}

func (r *countingReader) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, nil
}

func (r *countingReader) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return r.categories, nil
}

func newStorefrontFixture(products []domain.Product) (*Storefront, *countingReader) {
	api := &countingReader{products: products}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStorefront(
		api,
		cache.New[[]domain.Product]("sf-products", time.Minute),
		cache.New[[]domain.Category]("sf-categories", time.Minute),
		log,
	), api
}

func TestProductsServedThroughCache(t *testing.T) {
	sf, api := newStorefrontFixture(catalogFixture())
	ctx := context.Background()

	_, _, err := sf.Products(ctx, domain.DefaultFilterState())
	require.NoError(t, err)
	_, _, err = sf.Products(ctx, domain.DefaultFilterState())
	require.NoError(t, err)

	assert.Equal(t, 1, api.productCalls, "second read must hit the cache")
}

func TestProductsDerivesDefaultBounds(t *testing.T) {
	sf, _ := newStorefrontFixture(catalogFixture())

	products, next, err := sf.Products(context.Background(), domain.DefaultFilterState())
	require.NoError(t, err)

	assert.Len(t, products, 3)
	assert.Equal(t, 0.0, next.MinPrice)
	assert.Equal(t, 200.0, next.MaxPrice)
	assert.Equal(t, 200.0, next.CeilPrice)
}

func TestMaxPriceFor(t *testing.T) {
	sf, _ := newStorefrontFixture(catalogFixture())

	ceiling, err := sf.MaxPriceFor(context.Background(), "silk")
	require.NoError(t, err)
	assert.Equal(t, 100.0, ceiling)
}
