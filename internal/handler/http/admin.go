package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sareehouse/storefront/internal/domain"
	"github.com/sareehouse/storefront/internal/service"
	apperrors "github.com/sareehouse/storefront/pkg/errors"
	"github.com/sareehouse/storefront/pkg/httputil"
	"github.com/sareehouse/storefront/pkg/validator"
)

// maxUploadSize caps the multipart body of a product creation request.
const maxUploadSize = 32 << 20

// AdminHandler serves the privileged catalog mutation endpoints.
type AdminHandler struct {
	admin  *service.Admin
	logger *slog.Logger
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(admin *service.Admin, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// CreateProduct serves POST /api/v1/admin/products. The request is
// multipart: text fields plus the image files under "images" and the main
// image selector under "mainImageIndex".
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	input, err := parseCreateProductForm(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	created, err := h.admin.CreateProduct(r.Context(), input)
	if err != nil {
		h.writeMutationError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

type bulkDeleteRequest struct {
	IDs     []string `json:"ids" validate:"required,min=1"`
	Confirm bool     `json:"confirm"`
}

// BulkDeleteProducts serves POST /api/v1/admin/products/bulk-delete. The
// request must carry "confirm": true; deletion of many products is not
// reversible.
func (h *AdminHandler) BulkDeleteProducts(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if !req.Confirm {
		httputil.WriteError(w, r, apperrors.InvalidInput("bulk deletion requires confirm: true"), h.logger)
		return
	}

	result, err := h.admin.BulkDeleteProducts(r.Context(), req.IDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := http.StatusOK
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	httputil.WriteJSON(w, status, httputil.Response{Data: result})
}

// CreateCategory serves POST /api/v1/admin/categories.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateCategoryInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	created, err := h.admin.CreateCategory(r.Context(), input)
	if err != nil {
		h.writeMutationError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

// DeleteCategory serves DELETE /api/v1/admin/categories/{id}.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTemplates serves GET /api/v1/admin/templates.
func (h *AdminHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.admin.Templates(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: templates})
}

// CreateTemplate serves POST /api/v1/admin/templates.
func (h *AdminHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateTemplateInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	created, err := h.admin.CreateTemplate(r.Context(), input)
	if err != nil {
		h.writeMutationError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

// DeleteTemplate serves DELETE /api/v1/admin/templates/{id}.
func (h *AdminHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PrefillProduct serves GET /api/v1/admin/templates/{id}/prefill: the
// create-product field values derived from a template. Never images.
func (h *AdminHandler) PrefillProduct(w http.ResponseWriter, r *http.Request) {
	input, err := h.admin.PrefillProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: input})
}

// Status serves GET /api/v1/admin/status: the phase of every mutation kind.
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.admin.Status()})
}

// writeMutationError routes validation failures to the field-level error
// shape and everything else through the standard error writer.
func (h *AdminHandler) writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		httputil.WriteValidationError(w, err)
		return
	}
	httputil.WriteError(w, r, err, h.logger)
}

func parseCreateProductForm(r *http.Request) (domain.CreateProductInput, error) {
	var input domain.CreateProductInput

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return input, apperrors.InvalidInput("request must be multipart form data")
	}

	input.Name = r.FormValue("name")
	input.Category = r.FormValue("category")
	input.Description = r.FormValue("description")
	input.Material = r.FormValue("material")
	input.Color = r.FormValue("color")

	if raw := r.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return input, apperrors.InvalidInput("price must be a number")
		}
		input.Price = price
	}
	if raw := r.FormValue("mainImageIndex"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return input, apperrors.InvalidInput("mainImageIndex must be an integer")
		}
		input.MainImageIndex = idx
	}

	files := r.MultipartForm.File["images"]
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return input, fmt.Errorf("open uploaded image %s: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return input, fmt.Errorf("read uploaded image %s: %w", fh.Filename, err)
		}
		input.Images = append(input.Images, domain.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}

	if len(input.Images) == 0 {
		return input, apperrors.InvalidInput("at least one image is required")
	}
	if input.MainImageIndex < 0 || input.MainImageIndex >= len(input.Images) {
		return input, apperrors.InvalidInput("mainImageIndex is out of range")
	}

	return input, nil
}
