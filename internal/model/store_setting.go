package model

import "time"

// StoreSetting is a single-row table holding the store identity printed on
// receipts and shown in the dashboard header.
type StoreSetting struct {
	ID            int    `gorm:"primaryKey"`
	StoreName     string `gorm:"not null;default:'Lanchonete PDV'"`
	Address       *string
	Phone         *string
	Email         *string
	ReceiptFooter *string
	UpdatedAt     time.Time
}

func (StoreSetting) TableName() string { return "store_settings" }
