package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Transitions are intentionally permissive: any status may be
// overwritten with any other valid status (including re-cancelling a
// CANCELLED order), matching the behavior the kitchen staff relies on to
// correct mistaken updates.
const (
	StatusPending   = "PENDING"
	StatusPreparing = "PREPARING"
	StatusReady     = "READY"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// Payment methods accepted at the register.
const (
	PaymentCash       = "CASH"
	PaymentCreditCard = "CREDIT_CARD"
	PaymentDebitCard  = "DEBIT_CARD"
	PaymentPix        = "PIX"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix:
		return true
	}
	return false
}

// Order is a persisted sale. OrderNumber is the human-facing sequential
// identifier shown on tickets — distinct from the primary key and unique
// across the whole table.
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderNumber   int             `gorm:"uniqueIndex;not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UserID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	CustomerName  *string
	PaymentMethod string `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User     *User       `gorm:"foreignKey:UserID"`
	Comments []Comment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one line of an order. Price is a snapshot of the product's
// price at order time; Subtotal == Price × Quantity always.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Note      *string
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderCounter is the single-row source of sequential order numbers.
// Incremented atomically inside the order-creation transaction.
type OrderCounter struct {
	ID    int `gorm:"primaryKey"`
	Value int `gorm:"not null"`
}

func (OrderCounter) TableName() string { return "order_counters" }
