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

type CommentService interface {
	Create(ctx context.Context, orderID, userID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]dto.CommentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentService struct {
	repo      repository.CommentRepository
	orderRepo repository.OrderRepository
}

func NewCommentService(repo repository.CommentRepository, orderRepo repository.OrderRepository) CommentService {
	return &commentService{repo: repo, orderRepo: orderRepo}
}

func (s *commentService) Create(ctx context.Context, orderID, userID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Pedido nao encontrado")
		}
		return nil, apierror.NewInternal(err)
	}

	c := &model.Comment{
		ID:        uuid.New(),
		OrderID:   orderID,
		Content:   req.Content,
		CreatedBy: userID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apierror.NewInternal(err)
	}
	return commentToResponse(c), nil
}

func (s *commentService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]dto.CommentResponse, error) {
	comments, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, apierror.NewInternal(err)
	}
	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, *commentToResponse(&comments[i]))
	}
	return resp, nil
}

func (s *commentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewNotFound("Comentario nao encontrado")
		}
		return apierror.NewInternal(err)
	}
	return nil
}

func commentToResponse(c *model.Comment) *dto.CommentResponse {
	author := ""
	if c.Author != nil {
		author = c.Author.Name
	}
	return &dto.CommentResponse{
		ID:        c.ID.String(),
		OrderID:   c.OrderID.String(),
		Content:   c.Content,
		CreatedBy: c.CreatedBy.String(),
		Author:    author,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
