package service

import (
	"context"
	"time"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/dto"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/repository"
)

type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apierror.NewInternal(err)
	}
	return settingsToResponse(setting), nil
}

func (s *settingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apierror.NewInternal(err)
	}

	if req.StoreName != nil && *req.StoreName != "" {
		setting.StoreName = *req.StoreName
	}
	if req.Address != nil {
		setting.Address = req.Address
	}
	if req.Phone != nil {
		setting.Phone = req.Phone
	}
	if req.Email != nil {
		setting.Email = req.Email
	}
	if req.ReceiptFooter != nil {
		setting.ReceiptFooter = req.ReceiptFooter
	}

	if err := s.repo.Update(ctx, setting); err != nil {
		return nil, apierror.NewInternal(err)
	}
	return settingsToResponse(setting), nil
}

func settingsToResponse(s *model.StoreSetting) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		StoreName:     s.StoreName,
		Address:       s.Address,
		Phone:         s.Phone,
		Email:         s.Email,
		ReceiptFooter: s.ReceiptFooter,
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}
}
