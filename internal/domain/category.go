package domain

import "encoding/json"

// Category is a product category as served by the remote API.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	ProductCount int    `json:"productCount,omitempty"`
}

// UnmarshalJSON maps the backend's `_id` onto ID.
func (c *Category) UnmarshalJSON(data []byte) error {
	type alias Category
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

// CreateCategoryInput holds the parameters for creating a category. Slug is
// derived from the name when omitted.
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Slug        string `json:"slug" validate:"omitempty,max=255"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"omitempty,url"`
}
