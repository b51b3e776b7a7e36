package infra

import (
	"fmt"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the SQLite file through GORM and runs the idempotent
// schema setup. Callers get a ready database or an error; readiness is
// re-checked later via CapabilityChecks on /ready.
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One writer connection: SQLite serializes writers anyway, and a single
	// connection makes the counter increment + order insert inside a
	// transaction atomic without SQLITE_BUSY churn.
	sqlDB.SetMaxOpenConns(1)

	if err := EnsureSchema(db); err != nil {
		return nil, fmt.Errorf("schema setup: %w", err)
	}

	return db, nil
}

// EnsureSchema creates or updates all tables and seeds the two singleton
// rows (order counter, store settings). Fully idempotent: safe to call on
// every boot.
func EnsureSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.User{},
		&model.Order{},
		&model.OrderItem{},
		&model.Comment{},
		&model.StoreSetting{},
		&model.OrderCounter{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Seed the order counter from the highest existing order number so the
	// sequence continues after restores/imports. INSERT OR IGNORE keeps this
	// a no-op when the row already exists.
	if err := db.Exec(`
		INSERT OR IGNORE INTO order_counters (id, value)
		VALUES (1, COALESCE((SELECT MAX(order_number) FROM orders), 0))
	`).Error; err != nil {
		return fmt.Errorf("seed order counter: %w", err)
	}

	if err := db.Exec(`
		INSERT OR IGNORE INTO store_settings (id, store_name, updated_at)
		VALUES (1, 'Lanchonete PDV', CURRENT_TIMESTAMP)
	`).Error; err != nil {
		return fmt.Errorf("seed store settings: %w", err)
	}

	return nil
}

// CapabilityCheck is a named, typed readiness probe for one entity.
type CapabilityCheck struct {
	Name  string
	Check func(db *gorm.DB) error
}

// CapabilityChecks enumerates one probe per entity. Each probe is an explicit
// typed query, so a broken table surfaces as a named failure instead of a
// reflection error.
func CapabilityChecks() []CapabilityCheck {
	probe := func(m interface{}) func(db *gorm.DB) error {
		return func(db *gorm.DB) error {
			var n int64
			return db.Model(m).Limit(1).Count(&n).Error
		}
	}
	return []CapabilityCheck{
		{Name: "categories", Check: probe(&model.Category{})},
		{Name: "products", Check: probe(&model.Product{})},
		{Name: "users", Check: probe(&model.User{})},
		{Name: "orders", Check: probe(&model.Order{})},
		{Name: "order_items", Check: probe(&model.OrderItem{})},
		{Name: "comments", Check: probe(&model.Comment{})},
		{Name: "store_settings", Check: probe(&model.StoreSetting{})},
		{Name: "order_counters", Check: probe(&model.OrderCounter{})},
	}
}
