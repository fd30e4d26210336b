package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sareehouse/storefront/internal/cache"
	"github.com/sareehouse/storefront/internal/catalog"
	"github.com/sareehouse/storefront/internal/domain"
	"github.com/sareehouse/storefront/internal/event"
	"github.com/sareehouse/storefront/internal/kvstore/memory"
	"github.com/sareehouse/storefront/internal/service"
	"github.com/sareehouse/storefront/internal/wishlist"
	apperrors "github.com/sareehouse/storefront/pkg/errors"
	"github.com/sareehouse/storefront/pkg/health"
	"github.com/sareehouse/storefront/pkg/middleware"
)

// fakeCatalog is an in-memory stand-in for the remote catalog API.
type fakeCatalog struct {
	products   []domain.Product
	categories []domain.Category
	templates  []domain.ProductTemplate
	failDelete map[string]error
	deleted    []string
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, apperrors.NotFound("product", id)
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, input domain.CreateProductInput) (domain.Product, error) {
	p := domain.Product{ID: "new", Name: input.Name, Price: input.Price}
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeCatalog) DeleteProduct(ctx context.Context, id string) error {
	if err := f.failDelete[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCatalog) CreateCategory(ctx context.Context, input domain.CreateCategoryInput) (domain.Category, error) {
	return domain.Category{ID: "c-new", Name: input.Name, Slug: input.Slug}, nil
}

func (f *fakeCatalog) DeleteCategory(ctx context.Context, id string) error { return nil }

func (f *fakeCatalog) ListTemplates(ctx context.Context) ([]domain.ProductTemplate, error) {
	return f.templates, nil
}

func (f *fakeCatalog) CreateTemplate(ctx context.Context, input domain.CreateTemplateInput) (domain.ProductTemplate, error) {
	return domain.ProductTemplate{ID: "t-new", TemplateName: input.TemplateName, Name: input.Name}, nil
}

func (f *fakeCatalog) DeleteTemplate(ctx context.Context, id string) error { return nil }

func (f *fakeCatalog) Login(ctx context.Context, username, password string) (catalog.LoginResult, error) {
	if username == "admin" && password == "secret" {
		return catalog.LoginResult{Success: true, AdminKey: "issued-key"}, nil
	}
	return catalog.LoginResult{}, apperrors.Unauthorized("invalid credentials")
}

type fixture struct {
	api     *fakeCatalog
	session *service.Session
	server  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	api := &fakeCatalog{
		products: []domain.Product{
			{ID: "p1", Name: "Kanchipuram", Price: 100, Category: domain.CategoryRef{Name: "Silk", Slug: "silk"}},
			{ID: "p2", Name: "Mysore", Price: 50, Category: domain.CategoryRef{Name: "Silk", Slug: "silk"}},
			{ID: "p3", Name: "Handloom", Price: 200, Category: domain.CategoryRef{Name: "Cotton", Slug: "cotton"}},
		},
		categories: []domain.Category{{ID: "c1", Name: "Silk", Slug: "silk"}},
		templates: []domain.ProductTemplate{
			{ID: "t1", TemplateName: "festival", Name: "Kanchipuram", Category: "silk", Price: 100},
		},
		failDelete: map[string]error{},
	}

	kv := memory.New()
	products := cache.New[[]domain.Product]("h-products", time.Minute)
	categories := cache.New[[]domain.Category]("h-categories", time.Minute)
	templates := cache.New[[]domain.ProductTemplate]("h-templates", time.Minute)

	storefrontSvc := service.NewStorefront(api, products, categories, log)
	tracker := service.NewMutationTracker(2 * time.Second)
	events := event.NewProducer(nil, "catalog-events", log)
	adminSvc := service.NewAdmin(api, tracker, events, products, categories, templates, log)
	session := service.NewSession(api, kv, []byte("test-secret-32-bytes-long-enough"), "", time.Hour, log)

	router := NewRouter(RouterConfig{
		Storefront:     storefrontSvc,
		Admin:          adminSvc,
		Session:        session,
		Wishlist:       wishlist.New(kv, log),
		Health:         health.NewHandler(),
		Logger:         log,
		CORS:           middleware.DefaultCORSConfig(),
		LoginRateLimit: 100,
		LoginRateBurst: 100,
	})

	return &fixture{api: api, session: session, server: router}
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) login(t *testing.T) string {
	t.Helper()
	token, err := f.session.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	return token
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestListProductsFiltered(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/products?category=silk&sort=asc", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData[struct {
		Products []domain.Product   `json:"products"`
		Filter   domain.FilterState `json:"filter"`
	}](t, rec)

	require.Len(t, data.Products, 2)
	assert.Equal(t, "p2", data.Products[0].ID)
	assert.Equal(t, "p1", data.Products[1].ID)
	assert.Equal(t, 100.0, data.Filter.CeilPrice)
}

func TestListProductsHonorsPinnedBounds(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/products?category=silk&min_price=60&max_price=150", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData[struct {
		Products []domain.Product   `json:"products"`
		Filter   domain.FilterState `json:"filter"`
	}](t, rec)

	require.Len(t, data.Products, 1)
	assert.Equal(t, "p1", data.Products[0].ID)
	assert.Equal(t, 60.0, data.Filter.MinPrice)
}

func TestListProductsRejectsBadSort(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/products?sort=sideways", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductCategoriesChips(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/products/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	chips := decodeData[[]service.CategoryChip](t, rec)
	require.Len(t, chips, 3)
	assert.Equal(t, "all", chips[0].Slug)
}

func TestWishlistRoundTrip(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/wishlist", map[string]string{"product_id": "p1"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	// Adding again is a no-op.
	rec = f.do(t, http.MethodPost, "/api/v1/wishlist", map[string]string{"product_id": "p1"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/wishlist", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeData[[]domain.WishlistEntry](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0].ID)
	assert.Equal(t, "Silk", entries[0].Category)

	rec = f.do(t, http.MethodGet, "/api/v1/wishlist/p1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	contains := decodeData[map[string]bool](t, rec)
	assert.True(t, contains["in_wishlist"])

	rec = f.do(t, http.MethodDelete, "/api/v1/wishlist/p1", nil, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/wishlist", nil, "")
	entries = decodeData[[]domain.WishlistEntry](t, rec)
	assert.Empty(t, entries)
}

func TestWishlistAddUnknownProduct(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/wishlist", map[string]string{"product_id": "nope"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/admin/status", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/admin/status", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginThenAdminStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "admin", "password": "secret",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData[map[string]string](t, rec)
	token := data["token"]
	require.NotEmpty(t, token)

	rec = f.do(t, http.MethodGet, "/api/v1/admin/status", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "admin", "password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBulkDeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodPost, "/api/v1/admin/products/bulk-delete", map[string]any{
		"ids": []string{"p1"},
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.api.deleted)
}

func TestBulkDeleteReportsPartialFailure(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)
	f.api.failDelete["p2"] = apperrors.Conflict("cannot delete p2")

	rec := f.do(t, http.MethodPost, "/api/v1/admin/products/bulk-delete", map[string]any{
		"ids": []string{"p1", "p2", "p3"}, "confirm": true,
	}, token)
	require.Equal(t, http.StatusMultiStatus, rec.Code)

	result := decodeData[service.BulkDeleteResult](t, rec)
	assert.Equal(t, []string{"p1", "p3"}, result.Deleted)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "p2", result.Failed[0].ID)
}

func TestTemplatePrefillEndpoint(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodGet, "/api/v1/admin/templates/t1/prefill", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	input := decodeData[domain.CreateProductInput](t, rec)
	assert.Equal(t, "Kanchipuram", input.Name)
	assert.Equal(t, "silk", input.Category)
}

func TestCreateCategoryEndpoint(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodPost, "/api/v1/admin/categories", map[string]string{"name": "Georgette"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeData[domain.Category](t, rec)
	assert.Equal(t, "georgette", created.Slug)
}

func TestCreateCategoryValidation(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodPost, "/api/v1/admin/categories", map[string]string{"description": "no name"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthLive(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
