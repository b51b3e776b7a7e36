package repository

import (
	"context"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*model.StoreSetting, error)
	Update(ctx context.Context, s *model.StoreSetting) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

// Get returns the singleton settings row (seeded by EnsureSchema).
func (r *settingsRepo) Get(ctx context.Context) (*model.StoreSetting, error) {
	var s model.StoreSetting
	err := r.db.WithContext(ctx).First(&s, "id = ?", 1).Error
	return &s, err
}

func (r *settingsRepo) Update(ctx context.Context, s *model.StoreSetting) error {
	s.ID = 1
	return r.db.WithContext(ctx).Save(s).Error
}
