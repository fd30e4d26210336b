package service

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"

	"github.com/sareehouse/storefront/internal/cache"
	"github.com/sareehouse/storefront/internal/domain"
	"github.com/sareehouse/storefront/internal/event"
	apperrors "github.com/sareehouse/storefront/pkg/errors"
	"github.com/sareehouse/storefront/pkg/slug"
	"github.com/sareehouse/storefront/pkg/validator"
)

// CatalogAdmin is the mutating side of the catalog API.
type CatalogAdmin interface {
	CreateProduct(ctx context.Context, input domain.CreateProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, input domain.CreateCategoryInput) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListTemplates(ctx context.Context) ([]domain.ProductTemplate, error)
	CreateTemplate(ctx context.Context, input domain.CreateTemplateInput) (domain.ProductTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
}

// BulkDeleteFailure attributes one failed deletion to its identifier.
type BulkDeleteFailure struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// BulkDeleteResult reports the outcome of a bulk product deletion.
type BulkDeleteResult struct {
	Deleted []string            `json:"deleted"`
	Failed  []BulkDeleteFailure `json:"failed,omitempty"`
}

// Admin runs the privileged catalog mutation workflow: validate locally,
// call the remote API, then invalidate caches and publish events on
// success. The remote API remains the owner of all catalog data.
type Admin struct {
	api        CatalogAdmin
	tracker    *MutationTracker
	events     *event.Producer
	products   *cache.Cache[[]domain.Product]
	categories *cache.Cache[[]domain.Category]
	templates  *cache.Cache[[]domain.ProductTemplate]
	logger     *slog.Logger
}

// NewAdmin creates the admin mutation service.
func NewAdmin(
	api CatalogAdmin,
	tracker *MutationTracker,
	events *event.Producer,
	products *cache.Cache[[]domain.Product],
	categories *cache.Cache[[]domain.Category],
	templates *cache.Cache[[]domain.ProductTemplate],
	logger *slog.Logger,
) *Admin {
	return &Admin{
		api:        api,
		tracker:    tracker,
		events:     events,
		products:   products,
		categories: categories,
		templates:  templates,
		logger:     logger,
	}
}

// CreateProduct validates the input, creates the product remotely, then
// invalidates the product cache and publishes product.created.
func (a *Admin) CreateProduct(ctx context.Context, input domain.CreateProductInput) (domain.Product, error) {
	if err := validator.Validate(input); err != nil {
		return domain.Product{}, err
	}

	a.tracker.Begin(MutationProductCreate)
	created, err := a.api.CreateProduct(ctx, input)
	if err != nil {
		a.tracker.Fail(MutationProductCreate, userMessage(err))
		return domain.Product{}, err
	}

	a.products.Invalidate(cacheKeyProducts)
	a.events.ProductCreated(ctx, created.ID, created)
	a.tracker.Succeed(MutationProductCreate)
	return created, nil
}

// BulkDeleteProducts deletes the given products one at a time, in order.
// A failure is attributed to its identifier and does not stop the batch;
// items deleted before the failure stay deleted. The product cache is
// invalidated exactly once, after the whole batch.
func (a *Admin) BulkDeleteProducts(ctx context.Context, ids []string) (BulkDeleteResult, error) {
	if len(ids) == 0 {
		return BulkDeleteResult{}, apperrors.InvalidInput("no product ids given")
	}

	a.tracker.Begin(MutationBulkDelete)

	var result BulkDeleteResult
	for _, id := range ids {
		if err := a.api.DeleteProduct(ctx, id); err != nil {
			a.logger.WarnContext(ctx, "bulk delete: product deletion failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
			result.Failed = append(result.Failed, BulkDeleteFailure{
				ID:      id,
				Message: userMessage(err),
			})
			continue
		}
		result.Deleted = append(result.Deleted, id)
		a.events.ProductDeleted(ctx, id)
	}

	a.products.Invalidate(cacheKeyProducts)

	if len(result.Failed) > 0 {
		a.tracker.Fail(MutationBulkDelete,
			fmt.Sprintf("%d of %d deletions failed", len(result.Failed), len(ids)))
	} else {
		a.tracker.Succeed(MutationBulkDelete)
	}
	return result, nil
}

// CreateCategory validates the input, derives the slug from the name when
// absent, creates the category remotely and invalidates the category cache.
func (a *Admin) CreateCategory(ctx context.Context, input domain.CreateCategoryInput) (domain.Category, error) {
	if err := validator.Validate(input); err != nil {
		return domain.Category{}, err
	}
	if input.Slug == "" {
		input.Slug = slug.Generate(input.Name)
	}

	a.tracker.Begin(MutationCategoryCreate)
	created, err := a.api.CreateCategory(ctx, input)
	if err != nil {
		a.tracker.Fail(MutationCategoryCreate, userMessage(err))
		return domain.Category{}, err
	}

	a.categories.Invalidate(cacheKeyCategories)
	a.events.CategoryCreated(ctx, created.ID, created)
	a.tracker.Succeed(MutationCategoryCreate)
	return created, nil
}

// DeleteCategory deletes a category remotely and invalidates the category
// cache.
func (a *Admin) DeleteCategory(ctx context.Context, id string) error {
	a.tracker.Begin(MutationCategoryDelete)
	if err := a.api.DeleteCategory(ctx, id); err != nil {
		a.tracker.Fail(MutationCategoryDelete, userMessage(err))
		return err
	}

	a.categories.Invalidate(cacheKeyCategories)
	a.events.CategoryDeleted(ctx, id)
	a.tracker.Succeed(MutationCategoryDelete)
	return nil
}

// Templates lists the saved product templates through the template cache.
func (a *Admin) Templates(ctx context.Context) ([]domain.ProductTemplate, error) {
	return a.templates.GetOrFetch(ctx, cacheKeyTemplates, a.api.ListTemplates)
}

// CreateTemplate validates and saves a product template remotely.
func (a *Admin) CreateTemplate(ctx context.Context, input domain.CreateTemplateInput) (domain.ProductTemplate, error) {
	if err := validator.Validate(input); err != nil {
		return domain.ProductTemplate{}, err
	}

	a.tracker.Begin(MutationTemplateCreate)
	created, err := a.api.CreateTemplate(ctx, input)
	if err != nil {
		a.tracker.Fail(MutationTemplateCreate, userMessage(err))
		return domain.ProductTemplate{}, err
	}

	a.templates.Invalidate(cacheKeyTemplates)
	a.events.TemplateCreated(ctx, created.ID, created)
	a.tracker.Succeed(MutationTemplateCreate)
	return created, nil
}

// DeleteTemplate deletes a template remotely and invalidates the template
// cache.
func (a *Admin) DeleteTemplate(ctx context.Context, id string) error {
	a.tracker.Begin(MutationTemplateDelete)
	if err := a.api.DeleteTemplate(ctx, id); err != nil {
		a.tracker.Fail(MutationTemplateDelete, userMessage(err))
		return err
	}

	a.templates.Invalidate(cacheKeyTemplates)
	a.events.TemplateDeleted(ctx, id)
	a.tracker.Succeed(MutationTemplateDelete)
	return nil
}

// PrefillProduct builds a create-product input from a saved template.
// Field values are copied; images are never part of a template and must be
// supplied fresh with the creation request.
func (a *Admin) PrefillProduct(ctx context.Context, templateID string) (domain.CreateProductInput, error) {
	templates, err := a.Templates(ctx)
	if err != nil {
		return domain.CreateProductInput{}, err
	}

	for _, t := range templates {
		if t.ID == templateID {
			return domain.CreateProductInput{
				Name:        t.Name,
				Category:    t.Category,
				Price:       t.Price,
				Description: t.Description,
				Material:    t.Material,
				Color:       t.Color,
			}, nil
		}
	}
	return domain.CreateProductInput{}, apperrors.NotFound("template", templateID)
}

// Status returns the observable phase of every mutation kind.
func (a *Admin) Status() []MutationStatus {
	return a.tracker.Snapshot()
}

// userMessage extracts the message worth showing to the admin UI: server
// messages are preserved verbatim, anything else degrades to a generic one.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if goerrors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong, please try again"
}
