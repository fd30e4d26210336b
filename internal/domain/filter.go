package domain

// CategoryAll is the sentinel slug meaning "no category filter".
const CategoryAll = "all"

// SortOrder controls price ordering of the filtered product list.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// Valid reports whether the sort order is one of the known values.
func (s SortOrder) Valid() bool {
	return s == SortAscending || s == SortDescending
}

// FilterState is the ephemeral filter configuration for the product list.
//
// CeilPrice tracks the maximum price of the currently category-filtered
// product set. When a new derivation observes a different ceiling (because
// the category or the underlying products changed), the price band resets to
// [0, ceiling]; otherwise user-adjusted bounds are left alone.
type FilterState struct {
	Category  string    `json:"category"`
	MinPrice  float64   `json:"min_price"`
	MaxPrice  float64   `json:"max_price"`
	CeilPrice float64   `json:"ceil_price"`
	Sort      SortOrder `json:"sort"`
}

// DefaultFilterState returns the initial filter configuration: all
// categories, unbounded price band pending the first derivation, ascending.
func DefaultFilterState() FilterState {
	return FilterState{
		Category: CategoryAll,
		Sort:     SortAscending,
	}
}
