// Package catalog implements the client for the remote saree catalog REST
// API. All product, category and template data is owned by that API; this
// client only reads it and forwards admin mutations.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/sareehouse/storefront/internal/domain"
	apperrors "github.com/sareehouse/storefront/pkg/errors"
	"github.com/sareehouse/storefront/pkg/httpclient"
)

// adminKeyHeader is the shared-secret header the catalog API expects on
// every mutating call.
const adminKeyHeader = "X-Admin-Key"

// KeySource yields the current admin key for mutating calls. The session
// service implements it over the session store.
type KeySource interface {
	AdminKey(ctx context.Context) (string, error)
}

// KeySourceFunc adapts a function to the KeySource interface.
type KeySourceFunc func(ctx context.Context) (string, error)

// AdminKey calls f.
func (f KeySourceFunc) AdminKey(ctx context.Context) (string, error) { return f(ctx) }

// Doer is the transport the client sends requests through. Satisfied by
// httpclient.CircuitBreakerClient in production and by test fakes.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

var _ Doer = (*httpclient.CircuitBreakerClient)(nil)

// LoginResult is the catalog API's login response. Some deployments answer
// 200 with success=false instead of a 401; AdminKey is only present when
// the API issues the shared secret itself.
type LoginResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	AdminKey string `json:"adminKey,omitempty"`
}

// Client talks to the catalog API.
type Client struct {
	http    Doer
	baseURL string
	keys    KeySource
	logger  *slog.Logger
}

// New creates a catalog client. baseURL is the API root without a trailing
// slash, e.g. "https://api.example.com/api".
func New(doer Doer, baseURL string, keys KeySource, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		keys:    keys,
		logger:  logger,
	}
}

// ListProducts fetches the full product list.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return getJSON[[]domain.Product](ctx, c, "/products")
}

// GetProduct fetches a single product by its identifier.
func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return getJSON[domain.Product](ctx, c, "/products/"+id)
}

// CreateProduct creates a product via a multipart upload: text fields plus
// the image files under "images" and the selected main image index under
// "mainImageIndex".
func (c *Client) CreateProduct(ctx context.Context, input domain.CreateProductInput) (domain.Product, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":           input.Name,
		"category":       input.Category,
		"price":          strconv.FormatFloat(input.Price, 'f', -1, 64),
		"description":    input.Description,
		"material":       input.Material,
		"color":          input.Color,
		"mainImageIndex": strconv.Itoa(input.MainImageIndex),
	}
	for field, value := range fields {
		if err := w.WriteField(field, value); err != nil {
			return domain.Product{}, fmt.Errorf("write multipart field %s: %w", field, err)
		}
	}

	for _, img := range input.Images {
		part, err := w.CreateFormFile("images", img.Filename)
		if err != nil {
			return domain.Product{}, fmt.Errorf("create multipart file part: %w", err)
		}
		if _, err := part.Write(img.Content); err != nil {
			return domain.Product{}, fmt.Errorf("write image %s: %w", img.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return domain.Product{}, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return domain.Product{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	// The buffered body makes retries replayable.
	body := buf.Bytes()
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	if err := c.authorize(ctx, req); err != nil {
		return domain.Product{}, err
	}
	return doJSON[domain.Product](ctx, c, req)
}

// DeleteProduct deletes a product by its identifier.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.deleteResource(ctx, "/products/"+id)
}

// ListCategories fetches the category list.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return getJSON[[]domain.Category](ctx, c, "/categories")
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, input domain.CreateCategoryInput) (domain.Category, error) {
	return postResource[domain.Category](ctx, c, "/categories", input)
}

// DeleteCategory deletes a category by its identifier.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.deleteResource(ctx, "/categories/"+id)
}

// ListTemplates fetches the saved product templates.
func (c *Client) ListTemplates(ctx context.Context) ([]domain.ProductTemplate, error) {
	return getJSON[[]domain.ProductTemplate](ctx, c, "/product-templates")
}

// CreateTemplate saves a product template.
func (c *Client) CreateTemplate(ctx context.Context, input domain.CreateTemplateInput) (domain.ProductTemplate, error) {
	return postResource[domain.ProductTemplate](ctx, c, "/product-templates", input)
}

// DeleteTemplate deletes a template by its identifier.
func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	return c.deleteResource(ctx, "/product-templates/"+id)
}

// Login verifies admin credentials against the catalog API and returns the
// admin key to attach to subsequent mutations.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("marshal login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return LoginResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	}

	result, err := doJSON[LoginResult](ctx, c, req)
	if err != nil {
		return LoginResult{}, err
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "invalid credentials"
		}
		return LoginResult{}, apperrors.Unauthorized(msg)
	}
	return result, nil
}

// Ping reports whether the catalog API is reachable. Used by the readiness
// probe; any HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/categories", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("catalog api unreachable: %w", err)
	}
	drain(resp)
	return nil
}

// authorize attaches the admin key header, rejecting the call when no key
// is stored.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	key, err := c.keys.AdminKey(ctx)
	if err != nil {
		return err
	}
	if key == "" {
		return apperrors.Unauthorized("admin key not configured; log in first")
	}
	req.Header.Set(adminKeyHeader, key)
	return nil
}

func (c *Client) deleteResource(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "catalog api")
	}
	drain(resp)
	return nil
}

// getJSON performs an unauthenticated GET and decodes the JSON body.
func getJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var zero T
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}
	return doJSON[T](ctx, c, req)
}

// postResource performs an authorized JSON POST and decodes the created
// resource from the response.
func postResource[T any](ctx context.Context, c *Client, path string, input any) (T, error) {
	var zero T
	payload, err := json.Marshal(input)
	if err != nil {
		return zero, fmt.Errorf("marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	}

	if err := c.authorize(ctx, req); err != nil {
		return zero, err
	}
	return doJSON[T](ctx, c, req)
}

func doJSON[T any](ctx context.Context, c *Client, req *http.Request) (T, error) {
	var zero T
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return zero, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, httpclient.ParseResponseError(resp, "catalog api")
	}

	defer func() { _ = resp.Body.Close() }()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("decode catalog response: %w", err)
	}
	return out, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}
