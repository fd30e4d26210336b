package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sareehouse/storefront/internal/domain"
	"github.com/sareehouse/storefront/internal/service"
	apperrors "github.com/sareehouse/storefront/pkg/errors"
	"github.com/sareehouse/storefront/pkg/httputil"
)

// ProductHandler serves the public catalog read endpoints.
type ProductHandler struct {
	svc    *service.Storefront
	logger *slog.Logger
}

// NewProductHandler creates the product handler.
func NewProductHandler(svc *service.Storefront, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, logger: logger}
}

// productListResponse pairs the filtered products with the derived filter
// state so clients can render the price slider bounds.
type productListResponse struct {
	Products []domain.Product   `json:"products"`
	Filter   domain.FilterState `json:"filter"`
}

// List serves GET /api/v1/products with optional category, min_price,
// max_price and sort query parameters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	state, err := h.filterStateFromQuery(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products, next, err := h.svc.Products(r.Context(), state)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: productListResponse{Products: products, Filter: next},
	})
}

// Get serves GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.svc.Product(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CategoryChips serves GET /api/v1/products/categories: the filter chip
// list derived from the products themselves.
func (h *ProductHandler) CategoryChips(w http.ResponseWriter, r *http.Request) {
	chips, err := h.svc.ProductCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: chips})
}

// Categories serves GET /api/v1/categories: the managed category list.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// filterStateFromQuery maps query parameters onto a filter state. When the
// caller pins price bounds, the state is seeded with the current category
// ceiling so the derivation keeps the caller's bounds instead of resetting
// them.
func (h *ProductHandler) filterStateFromQuery(r *http.Request) (domain.FilterState, error) {
	q := r.URL.Query()
	state := domain.DefaultFilterState()

	if category := q.Get("category"); category != "" {
		state.Category = category
	}

	if s := q.Get("sort"); s != "" {
		order := domain.SortOrder(s)
		if !order.Valid() {
			return state, apperrors.InvalidInput("sort must be \"asc\" or \"desc\"")
		}
		state.Sort = order
	}

	minRaw, maxRaw := q.Get("min_price"), q.Get("max_price")
	if minRaw == "" && maxRaw == "" {
		return state, nil
	}

	ceiling, err := h.svc.MaxPriceFor(r.Context(), state.Category)
	if err != nil {
		return state, err
	}
	state.CeilPrice = ceiling
	state.MaxPrice = ceiling

	if minRaw != "" {
		v, err := strconv.ParseFloat(minRaw, 64)
		if err != nil || v < 0 {
			return state, apperrors.InvalidInput("min_price must be a non-negative number")
		}
		state.MinPrice = v
	}
	if maxRaw != "" {
		v, err := strconv.ParseFloat(maxRaw, 64)
		if err != nil || v < 0 {
			return state, apperrors.InvalidInput("max_price must be a non-negative number")
		}
		state.MaxPrice = v
	}
	if state.MinPrice > state.MaxPrice {
		return state, apperrors.InvalidInput("min_price must not exceed max_price")
	}

	return state, nil
}
