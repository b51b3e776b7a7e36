package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity"   validate:"required,min=1"`
	Note      *string `json:"note"`
}

type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=CASH CREDIT_CARD DEBIT_CARD PIX"`
	CustomerName  *string            `json:"customer_name"`
}

// UpdateOrderRequest replaces the order's items when Items is non-nil.
// Replaced items are re-priced from current product prices.
type UpdateOrderRequest struct {
	Items         []OrderItemRequest `json:"items"          validate:"omitempty,min=1,dive"`
	PaymentMethod *string            `json:"payment_method" validate:"omitempty,oneof=CASH CREDIT_CARD DEBIT_CARD PIX"`
	CustomerName  *string            `json:"customer_name"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type EmailReceiptRequest struct {
	To string `json:"to" validate:"required,email"`
}

// OrderFilter is bound from the query string of GET /v1/orders.
type OrderFilter struct {
	Status string `form:"status"` // PENDING | ... | all
	Date   string `form:"date"`   // YYYY-MM-DD
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=50"` // clamped to [1,200] in the service
}

// ─── Responses ───────────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Note      *string         `json:"note"`
}

type OrderUserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	OrderNumber   int                 `json:"order_number"`
	Status        string              `json:"status"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod string              `json:"payment_method"`
	CustomerName  *string             `json:"customer_name"`
	Items         []OrderItemResponse `json:"items"`
	User          OrderUserSummary    `json:"user"`
	Comments      []CommentResponse   `json:"comments,omitempty"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
