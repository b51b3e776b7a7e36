package dto

type CreateCategoryRequest struct {
	Name        string  `json:"name"  validate:"required"`
	Description *string `json:"description"`
	Color       string  `json:"color" validate:"omitempty,hexcolor"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"  validate:"omitempty,hexcolor"`
	Active      *bool   `json:"active"`
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	Active      bool    `json:"active"`
	// ProductCount is populated on list responses for the admin UI.
	ProductCount int64 `json:"product_count"`
}
