// Package http wires the storefront's HTTP surface: public catalog reads,
// the wishlist, admin auth and the admin mutation endpoints.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sareehouse/storefront/internal/service"
	"github.com/sareehouse/storefront/pkg/health"
	"github.com/sareehouse/storefront/pkg/middleware"
)

// RouterConfig carries everything the router needs.
type RouterConfig struct {
	Storefront *service.Storefront
	Admin      *service.Admin
	Session    *service.Session
	Wishlist   WishlistStore
	Health     *health.Handler
	Logger     *slog.Logger

	CORS           middleware.CORSConfig
	LoginRateLimit int
	LoginRateBurst int
}

// NewRouter builds the chi router with the full middleware chain and all
// routes mounted.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics())

	products := NewProductHandler(cfg.Storefront, cfg.Logger)
	wishlist := NewWishlistHandler(cfg.Wishlist, cfg.Storefront, cfg.Logger)
	auth := NewAuthHandler(cfg.Session, cfg.Logger)
	admin := NewAdminHandler(cfg.Admin, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/categories", products.CategoryChips)
			r.Get("/{id}", products.Get)
		})
		r.Get("/categories", products.Categories)

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlist.List)
			r.Post("/", wishlist.Add)
			r.Delete("/", wishlist.Clear)
			r.Get("/{productId}", wishlist.Contains)
			r.Delete("/{productId}", wishlist.Remove)
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(cfg.LoginRateLimit, cfg.LoginRateBurst, cfg.Logger)).
				Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuth(cfg.Session, cfg.Logger))

			r.Post("/products", admin.CreateProduct)
			r.Post("/products/bulk-delete", admin.BulkDeleteProducts)

			r.Post("/categories", admin.CreateCategory)
			r.Delete("/categories/{id}", admin.DeleteCategory)

			r.Get("/templates", admin.ListTemplates)
			r.Post("/templates", admin.CreateTemplate)
			r.Delete("/templates/{id}", admin.DeleteTemplate)
			r.Get("/templates/{id}/prefill", admin.PrefillProduct)

			r.Get("/status", admin.Status)
		})
	})

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	return r
}
