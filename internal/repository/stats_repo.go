package repository

import (
	"context"
	"time"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"

	"gorm.io/gorm"
)

// StatsRepository fetches the raw orders the aggregator works on. Grouping
// and arithmetic happen in the service layer over exact decimals, so these
// queries only filter and preload.
type StatsRepository interface {
	OrdersInRange(ctx context.Context, start, end time.Time, includeCancelled bool) ([]model.Order, error)
	RecentOrders(ctx context.Context, limit int) ([]model.Order, error)
}

type statsRepo struct{ db *gorm.DB }

func NewStatsRepository(db *gorm.DB) StatsRepository { return &statsRepo{db: db} }

func (r *statsRepo) OrdersInRange(ctx context.Context, start, end time.Time, includeCancelled bool) ([]model.Order, error) {
	var orders []model.Order
	q := r.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", start, end)
	if !includeCancelled {
		q = q.Where("status <> ?", model.StatusCancelled)
	}
	err := q.Preload("Items.Product").
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *statsRepo) RecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
