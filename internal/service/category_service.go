package service

import (
	"context"
	"errors"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/dto"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryService defines business operations for product categories.
type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo        repository.CategoryRepository
	productRepo repository.ProductRepository
}

func NewCategoryService(repo repository.CategoryRepository, productRepo repository.ProductRepository) CategoryService {
	return &categoryService{repo: repo, productRepo: productRepo}
}

func categoryToResponse(c *model.Category, productCount int64) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Description:  c.Description,
		Color:        c.Color,
		Active:       c.Active,
		ProductCount: productCount,
	}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	existing, err := s.repo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NewInternal(err)
	}
	if existing != nil {
		return nil, apierror.NewConflict("Ja existe uma categoria com esse nome", "name")
	}

	c := &model.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if req.Color != "" {
		c.Color = req.Color
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.NewConflict("Ja existe uma categoria com esse nome", "name")
		}
		return nil, apierror.NewInternal(err)
	}
	resp := categoryToResponse(c, 0)
	return &resp, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierror.NewInternal(err)
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for i := range list {
		count, err := s.productRepo.CountByCategory(ctx, list[i].ID)
		if err != nil {
			return nil, apierror.NewInternal(err)
		}
		result = append(result, categoryToResponse(&list[i], count))
	}
	return result, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Categoria nao encontrada")
		}
		return nil, apierror.NewInternal(err)
	}

	if req.Name != nil && *req.Name != c.Name {
		existing, err := s.repo.FindByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewInternal(err)
		}
		if existing != nil && existing.ID != id {
			return nil, apierror.NewConflict("Ja existe uma categoria com esse nome", "name")
		}
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.Color != nil {
		c.Color = *req.Color
	}
	if req.Active != nil {
		c.Active = *req.Active
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, apierror.NewInternal(err)
	}
	count, _ := s.productRepo.CountByCategory(ctx, id)
	resp := categoryToResponse(c, count)
	return &resp, nil
}

// Delete removes a category, refusing while any product still references it.
// The check runs at this boundary rather than relying on a DB cascade.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewNotFound("Categoria nao encontrada")
		}
		return apierror.NewInternal(err)
	}

	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return apierror.NewInternal(err)
	}
	if count > 0 {
		return apierror.NewConflict("Categoria possui produtos vinculados", "category_id")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apierror.NewInternal(err)
	}
	return nil
}
