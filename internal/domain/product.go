package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// CategoryRef is a product's reference to its category. The catalog API
// emits it in two forms: an embedded summary object ({id, name, slug}) or a
// bare category-slug string. Both are accepted; the struct form is always
// produced on output.
type CategoryRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug"`
}

// UnmarshalJSON accepts either the embedded object form or a bare slug string.
func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var slug string
		if err := json.Unmarshal(data, &slug); err != nil {
			return err
		}
		c.Slug = slug
		return nil
	}

	type alias CategoryRef
	aux := struct {
		*alias
		LegacyID string `json:"_id"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.LegacyID
	}
	return nil
}

// DisplayName returns the human-readable category name, falling back to the
// slug when the remote only supplied the bare-string form.
func (c CategoryRef) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Slug
}

// MatchesSlug reports whether the reference's slug equals the given slug,
// case-insensitively.
func (c CategoryRef) MatchesSlug(slug string) bool {
	return strings.EqualFold(c.Slug, slug)
}

// IsZero reports whether the reference carries no category at all.
func (c CategoryRef) IsZero() bool {
	return c.ID == "" && c.Name == "" && c.Slug == ""
}

// Product is a catalog product as served by the remote API. Products are
// remote-owned: the storefront reads them and the admin workflow creates and
// deletes them, but never edits them in place.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    CategoryRef `json:"category"`
	Price       float64     `json:"price"`
	Description string      `json:"description,omitempty"`
	Material    string      `json:"material,omitempty"`
	Color       string      `json:"color,omitempty"`
	MainImage   string      `json:"mainImage,omitempty"`
	Images      []string    `json:"images,omitempty"`
	CreatedAt   time.Time   `json:"createdAt,omitempty"`
}

// ImageUpload is one product image to be sent to the catalog API.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// CreateProductInput holds the parameters for creating a product. Images are
// always supplied fresh with the request; MainImageIndex selects which of
// them becomes the product's main image.
type CreateProductInput struct {
	Name           string        `json:"name" validate:"required,min=1,max=255"`
	Category       string        `json:"category" validate:"required"`
	Price          float64       `json:"price" validate:"gte=0"`
	Description    string        `json:"description"`
	Material       string        `json:"material"`
	Color          string        `json:"color"`
	Images         []ImageUpload `json:"-" validate:"min=1"`
	MainImageIndex int           `json:"-" validate:"gte=0"`
}

// UnmarshalJSON maps the backend's `_id` onto ID so a single opaque string
// identifier is used end-to-end.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		*alias
		LegacyID string `json:"_id"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.LegacyID
	}
	return nil
}
