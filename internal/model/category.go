package model

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies products. It cannot be deleted while products still
// reference it — enforced in the service layer, not by cascade.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	// Color is a hex string used by the frontend for badges/charts.
	Color     string `gorm:"type:varchar(9);not null;default:'#6B7280'"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Category) TableName() string { return "categories" }
