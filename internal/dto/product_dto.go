package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"       validate:"required,gt=0"`
	CategoryID  string          `json:"category_id" validate:"required,uuid"`
	IsAvailable *bool           `json:"is_available"`
	ImagePath   *string         `json:"image_path"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,gt=0"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	IsAvailable *bool            `json:"is_available"`
	ImagePath   *string          `json:"image_path"`
}

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	CategoryID string `form:"category_id"`
	Available  *bool  `form:"available"`
	Search     string `form:"search"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=50"` // clamped to [1,200] in the service
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	Category    string          `json:"category,omitempty"`
	IsAvailable bool            `json:"is_available"`
	ImagePath   *string         `json:"image_path"`
	CreatedAt   string          `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
