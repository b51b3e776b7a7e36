package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a free-form annotation on an order.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Content   string    `gorm:"not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Author *User `gorm:"foreignKey:CreatedBy"`
}

func (Comment) TableName() string { return "comments" }
