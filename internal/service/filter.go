package service

import (
	"sort"
	"strings"

	"github.com/sareehouse/storefront/internal/domain"
)

// ApplyFilter derives the ordered product list for a filter configuration.
//
// Pure: same inputs always produce the same output and the input slice is
// never modified. The pipeline is category filter, price-band reset check,
// price band, stable price sort.
//
// The reset rule mirrors how the bounds behave when the category changes:
// the ceiling of the category-filtered set is recomputed each derivation,
// and when it differs from the ceiling recorded in the state, the band
// resets to [0, ceiling]. Otherwise user-adjusted bounds are preserved.
func ApplyFilter(products []domain.Product, state domain.FilterState) ([]domain.Product, domain.FilterState) {
	next := state
	if next.Category == "" {
		next.Category = domain.CategoryAll
	}
	if !next.Sort.Valid() {
		next.Sort = domain.SortAscending
	}

	byCategory := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesCategory(p, next.Category) {
			byCategory = append(byCategory, p)
		}
	}

	ceiling := maxPrice(byCategory)
	if ceiling != next.CeilPrice {
		next.CeilPrice = ceiling
		next.MinPrice = 0
		next.MaxPrice = ceiling
	}

	result := make([]domain.Product, 0, len(byCategory))
	for _, p := range byCategory {
		if p.Price >= next.MinPrice && p.Price <= next.MaxPrice {
			result = append(result, p)
		}
	}

	// Stable so equal prices keep their input order.
	sort.SliceStable(result, func(i, j int) bool {
		if next.Sort == domain.SortDescending {
			return result[i].Price > result[j].Price
		}
		return result[i].Price < result[j].Price
	})

	return result, next
}

// CategoryMaxPrice returns the highest price among products in the given
// category ("all" spans every product), or 0 when none match.
func CategoryMaxPrice(products []domain.Product, category string) float64 {
	var ceiling float64
	for _, p := range products {
		if matchesCategory(p, category) && p.Price > ceiling {
			ceiling = p.Price
		}
	}
	return ceiling
}

// CategoryChip is one entry of the filter chip row.
type CategoryChip struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// BuildCategoryChips derives the filter chip list from the distinct
// categories embedded in the product set, with the "all" sentinel first.
// Order follows first appearance in the product list.
func BuildCategoryChips(products []domain.Product) []CategoryChip {
	chips := []CategoryChip{{Slug: domain.CategoryAll, Name: "All"}}
	seen := map[string]bool{}
	for _, p := range products {
		if p.Category.IsZero() {
			continue
		}
		key := strings.ToLower(p.Category.Slug)
		if key == "" {
			key = strings.ToLower(p.Category.DisplayName())
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		chips = append(chips, CategoryChip{
			Slug: p.Category.Slug,
			Name: p.Category.DisplayName(),
		})
	}
	return chips
}

func matchesCategory(p domain.Product, category string) bool {
	if category == domain.CategoryAll {
		return true
	}
	return p.Category.MatchesSlug(category)
}

func maxPrice(products []domain.Product) float64 {
	var ceiling float64
	for _, p := range products {
		if p.Price > ceiling {
			ceiling = p.Price
		}
	}
	return ceiling
}
