package service

import (
	"context"
	"errors"
	"time"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/dto"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{repo: repo, categoryRepo: categoryRepo}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	catID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, apierror.NewValidation("Categoria invalida", map[string]string{"category_id": "invalid_id"})
	}
	if _, err := s.categoryRepo.FindByID(ctx, catID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewValidation("Categoria invalida", map[string]string{"category_id": "not_found"})
		}
		return nil, apierror.NewInternal(err)
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	p := &model.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  catID,
		IsAvailable: available,
		ImagePath:   req.ImagePath,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apierror.NewInternal(err)
	}
	return s.GetByID(ctx, p.ID)
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Produto nao encontrado")
		}
		return nil, apierror.NewInternal(err)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.NewInternal(err)
	}
	data := make([]dto.ProductResponse, len(products))
	for i := range products {
		data[i] = productToResponse(&products[i])
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Produto nao encontrado")
		}
		return nil, apierror.NewInternal(err)
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.CategoryID != nil {
		catID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, apierror.NewValidation("Categoria invalida", map[string]string{"category_id": "invalid_id"})
		}
		if _, err := s.categoryRepo.FindByID(ctx, catID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NewValidation("Categoria invalida", map[string]string{"category_id": "not_found"})
			}
			return nil, apierror.NewInternal(err)
		}
		p.CategoryID = catID
	}
	if req.IsAvailable != nil {
		p.IsAvailable = *req.IsAvailable
	}
	if req.ImagePath != nil {
		p.ImagePath = req.ImagePath
	}

	p.Category = nil // avoid re-saving the association
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apierror.NewInternal(err)
	}
	return s.GetByID(ctx, id)
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.setAvailability(ctx, id, false)
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.setAvailability(ctx, id, true)
}

func (s *productService) setAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewNotFound("Produto nao encontrado")
		}
		return apierror.NewInternal(err)
	}
	return nil
}

func productToResponse(p *model.Product) dto.ProductResponse {
	categoryName := ""
	if p.Category != nil {
		categoryName = p.Category.Name
	}
	return dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID.String(),
		Category:    categoryName,
		IsAvailable: p.IsAvailable,
		ImagePath:   p.ImagePath,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}
