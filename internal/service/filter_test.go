package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sareehouse/storefront/internal/domain"
)

func catalogFixture() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Kanchipuram", Price: 100, Category: domain.CategoryRef{Name: "Silk", Slug: "silk"}},
		{ID: "p2", Name: "Mysore", Price: 50, Category: domain.CategoryRef{Name: "Silk", Slug: "silk"}},
		{ID: "p3", Name: "Handloom", Price: 200, Category: domain.CategoryRef{Name: "Cotton", Slug: "cotton"}},
	}
}

func TestApplyFilterIsPure(t *testing.T) {
	products := catalogFixture()
	state := domain.FilterState{Category: "silk", MinPrice: 0, MaxPrice: 100, CeilPrice: 100, Sort: domain.SortAscending}

	first, firstState := ApplyFilter(products, state)
	second, secondState := ApplyFilter(products, state)

	assert.Equal(t, first, second)
	assert.Equal(t, firstState, secondState)
	assert.Equal(t, catalogFixture(), products, "input slice must not be modified")
}

func TestApplyFilterCategoryAndBandAscending(t *testing.T) {
	state := domain.FilterState{Category: "silk", MinPrice: 0, MaxPrice: 100, CeilPrice: 100, Sort: domain.SortAscending}

	result, _ := ApplyFilter(catalogFixture(), state)

	require.Len(t, result, 2)
	assert.Equal(t, 50.0, result[0].Price)
	assert.Equal(t, 100.0, result[1].Price)
}

func TestApplyFilterCategorySwitchResetsBounds(t *testing.T) {
	// The user narrowed the silk band to [20,80] (silk ceiling 100), then
	// switched to "all".
	state := domain.FilterState{Category: domain.CategoryAll, MinPrice: 20, MaxPrice: 80, CeilPrice: 100, Sort: domain.SortAscending}

	result, next := ApplyFilter(catalogFixture(), state)

	assert.Equal(t, 0.0, next.MinPrice)
	assert.Equal(t, 200.0, next.MaxPrice)
	assert.Equal(t, 200.0, next.CeilPrice)
	assert.Len(t, result, 3, "reset bounds admit every product")
}

func TestApplyFilterKeepsUserBoundsWhenCeilingUnchanged(t *testing.T) {
	state := domain.FilterState{Category: "silk", MinPrice: 20, MaxPrice: 80, CeilPrice: 100, Sort: domain.SortAscending}

	result, next := ApplyFilter(catalogFixture(), state)

	assert.Equal(t, 20.0, next.MinPrice)
	assert.Equal(t, 80.0, next.MaxPrice)
	require.Len(t, result, 1)
	assert.Equal(t, "p2", result[0].ID)
}

func TestApplyFilterDescending(t *testing.T) {
	state := domain.FilterState{Category: domain.CategoryAll, MinPrice: 0, MaxPrice: 200, CeilPrice: 200, Sort: domain.SortDescending}

	result, _ := ApplyFilter(catalogFixture(), state)

	require.Len(t, result, 3)
	assert.Equal(t, []string{"p3", "p1", "p2"}, []string{result[0].ID, result[1].ID, result[2].ID})
}

func TestApplyFilterStableOnEqualPrices(t *testing.T) {
	products := []domain.Product{
		{ID: "a", Price: 100, Category: domain.CategoryRef{Slug: "silk"}},
		{ID: "b", Price: 100, Category: domain.CategoryRef{Slug: "silk"}},
		{ID: "c", Price: 100, Category: domain.CategoryRef{Slug: "silk"}},
	}
	state := domain.FilterState{Category: "silk", MinPrice: 0, MaxPrice: 100, CeilPrice: 100, Sort: domain.SortAscending}

	result, _ := ApplyFilter(products, state)

	require.Len(t, result, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{result[0].ID, result[1].ID, result[2].ID})
}

func TestApplyFilterCategoryMatchIsCaseInsensitive(t *testing.T) {
	state := domain.FilterState{Category: "SILK", Sort: domain.SortAscending}

	result, _ := ApplyFilter(catalogFixture(), state)

	assert.Len(t, result, 2)
}

func TestApplyFilterEmptyCategoryYieldsZeroCeiling(t *testing.T) {
	state := domain.FilterState{Category: "georgette", CeilPrice: 100, Sort: domain.SortAscending}

	result, next := ApplyFilter(catalogFixture(), state)

	assert.Empty(t, result)
	assert.Equal(t, 0.0, next.CeilPrice)
	assert.Equal(t, 0.0, next.MaxPrice)
}

func TestApplyFilterBareSlugCategoryForm(t *testing.T) {
	// The remote sometimes emits only the slug string; the pipeline must
	// treat it like the embedded form.
	products := []domain.Product{
		{ID: "p1", Price: 75, Category: domain.CategoryRef{Slug: "silk"}},
	}
	state := domain.FilterState{Category: "silk", Sort: domain.SortAscending}

	result, _ := ApplyFilter(products, state)

	assert.Len(t, result, 1)
}

func TestCategoryMaxPrice(t *testing.T) {
	products := catalogFixture()

	assert.Equal(t, 100.0, CategoryMaxPrice(products, "silk"))
	assert.Equal(t, 200.0, CategoryMaxPrice(products, domain.CategoryAll))
	assert.Equal(t, 0.0, CategoryMaxPrice(products, "georgette"))
}

func TestBuildCategoryChips(t *testing.T) {
	chips := BuildCategoryChips(catalogFixture())

	require.Len(t, chips, 3)
	assert.Equal(t, domain.CategoryAll, chips[0].Slug)
	assert.Equal(t, "silk", chips[1].Slug)
	assert.Equal(t, "Silk", chips[1].Name)
	assert.Equal(t, "cotton", chips[2].Slug)
}

func TestBuildCategoryChipsSkipsDuplicatesAndEmpty(t *testing.T) {
	products := append(catalogFixture(), domain.Product{ID: "p4", Price: 10})

	chips := BuildCategoryChips(products)

	assert.Len(t, chips, 3, "empty category and duplicates are skipped")
}
