package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sareehouse/storefront/internal/domain"
	"github.com/sareehouse/storefront/internal/service"
	"github.com/sareehouse/storefront/pkg/httputil"
	"github.com/sareehouse/storefront/pkg/validator"
)

// WishlistStore is the store the wishlist handler persists to.
type WishlistStore = domain.WishlistStore

// WishlistHandler serves the wishlist endpoints. Adding looks the product
// up in the catalog first so the stored snapshot reflects the product at
// the moment it was saved.
type WishlistHandler struct {
	store      WishlistStore
	storefront *service.Storefront
	logger     *slog.Logger
}

// NewWishlistHandler creates the wishlist handler.
func NewWishlistHandler(store WishlistStore, storefront *service.Storefront, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{store: store, storefront: storefront, logger: logger}
}

type addWishlistRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// List serves GET /api/v1/wishlist.
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: entries})
}

// Contains serves GET /api/v1/wishlist/{productId}.
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	in, err := h.store.Contains(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]bool{"in_wishlist": in},
	})
}

// Add serves POST /api/v1/wishlist. Adding a product already present is a
// no-op and still answers 201.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addWishlistRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.storefront.Product(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.store.Add(r.Context(), product); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: domain.NewWishlistEntry(product),
	})
}

// Remove serves DELETE /api/v1/wishlist/{productId}. Removing an absent
// product is a no-op.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	if err := h.store.Remove(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear serves DELETE /api/v1/wishlist.
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
