package domain

import "encoding/json"

// ProductTemplate is a saved draft of product field values used to prefill
// the product-creation form. Templates never carry image data: images must
// always be re-supplied for a new product.
type ProductTemplate struct {
	ID           string  `json:"id"`
	TemplateName string  `json:"templateName"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Description  string  `json:"description,omitempty"`
	Material     string  `json:"material,omitempty"`
	Color        string  `json:"color,omitempty"`
}

// UnmarshalJSON maps the backend's `_id` onto ID and accepts the legacy
// `productName` field as an alias of Name.
func (t *ProductTemplate) UnmarshalJSON(data []byte) error {
	type alias ProductTemplate
	aux := struct {
		*alias
		LegacyID    string `json:"_id"`
		ProductName string `json:"productName"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = aux.LegacyID
	}
	if t.Name == "" {
		t.Name = aux.ProductName
	}
	return nil
}

// CreateTemplateInput holds the parameters for creating a template.
type CreateTemplateInput struct {
	TemplateName string  `json:"templateName" validate:"required,min=1,max=255"`
	Name         string  `json:"name" validate:"required,min=1,max=255"`
	Category     string  `json:"category" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Description  string  `json:"description"`
	Material     string  `json:"material"`
	Color        string  `json:"color"`
}
