// Package service holds the storefront's application logic: the cached
// catalog read path, the filter/sort pipeline, the admin mutation workflow
// and the session service.
package service

import (
	"context"
	"log/slog"

	"github.com/sareehouse/storefront/internal/cache"
	"github.com/sareehouse/storefront/internal/domain"
)

// Cache keys for the remote-owned collections.
const (
	cacheKeyProducts   = "products"
	cacheKeyCategories = "categories"
	cacheKeyTemplates  = "templates"
)

// CatalogReader is the read side of the catalog API used by the storefront.
type CatalogReader interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// Storefront serves the public read path over the cached catalog.
type Storefront struct {
	api        CatalogReader
	products   *cache.Cache[[]domain.Product]
	categories *cache.Cache[[]domain.Category]
	logger     *slog.Logger
}

// NewStorefront creates the storefront read service.
func NewStorefront(
	api CatalogReader,
	products *cache.Cache[[]domain.Product],
	categories *cache.Cache[[]domain.Category],
	logger *slog.Logger,
) *Storefront {
	return &Storefront{
		api:        api,
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// Products returns the filtered, ordered product list for the given state,
// along with the derived next state (price bounds may have reset).
func (s *Storefront) Products(ctx context.Context, state domain.FilterState) ([]domain.Product, domain.FilterState, error) {
	all, err := s.allProducts(ctx)
	if err != nil {
		return nil, state, err
	}
	filtered, next := ApplyFilter(all, state)
	return filtered, next, nil
}

// Product fetches a single product by identifier.
func (s *Storefront) Product(ctx context.Context, id string) (domain.Product, error) {
	return s.api.GetProduct(ctx, id)
}

// ProductCategories derives the filter chip list from the cached products.
func (s *Storefront) ProductCategories(ctx context.Context) ([]CategoryChip, error) {
	all, err := s.allProducts(ctx)
	if err != nil {
		return nil, err
	}
	return BuildCategoryChips(all), nil
}

// Categories returns the managed category list from the cache.
func (s *Storefront) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.GetOrFetch(ctx, cacheKeyCategories, s.api.ListCategories)
}

// MaxPriceFor returns the price ceiling of the given category over the
// cached product list. Handlers use it to seed the filter state so
// user-supplied bounds survive the reset check.
func (s *Storefront) MaxPriceFor(ctx context.Context, category string) (float64, error) {
	all, err := s.allProducts(ctx)
	if err != nil {
		return 0, err
	}
	return CategoryMaxPrice(all, category), nil
}

func (s *Storefront) allProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.GetOrFetch(ctx, cacheKeyProducts, s.api.ListProducts)
}
