package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/infra"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/repository"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReceiptService produces PDF receipts for orders and dispatches them by
// email through the async worker queue.
type ReceiptService interface {
	GeneratePDF(ctx context.Context, orderID uuid.UUID) (string, error)
	EmailReceipt(ctx context.Context, orderID uuid.UUID, to string) error
}

type receiptService struct {
	orderRepo    repository.OrderRepository
	settingsRepo repository.SettingsRepository
	dispatcher   *worker.Dispatcher
	storagePath  string
}

func NewReceiptService(
	orderRepo repository.OrderRepository,
	settingsRepo repository.SettingsRepository,
	dispatcher *worker.Dispatcher,
	storagePath string,
) ReceiptService {
	return &receiptService{
		orderRepo:    orderRepo,
		settingsRepo: settingsRepo,
		dispatcher:   dispatcher,
		storagePath:  storagePath,
	}
}

func (s *receiptService) GeneratePDF(ctx context.Context, orderID uuid.UUID) (string, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	return s.renderPDF(ctx, order)
}

func (s *receiptService) loadOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Pedido nao encontrado")
		}
		return nil, apierror.NewInternal(err)
	}
	return order, nil
}

func (s *receiptService) renderPDF(ctx context.Context, order *model.Order) (string, error) {
	// Settings are cosmetic on the receipt; fall back to defaults if unreadable.
	var setting *model.StoreSetting
	if st, err := s.settingsRepo.Get(ctx); err == nil {
		setting = st
	}

	path, err := infra.GenerateReceiptPDF(order, setting, s.storagePath)
	if err != nil {
		return "", apierror.NewInternal(err)
	}
	return path, nil
}

// EmailReceipt generates the PDF synchronously, then enqueues the delivery so
// a slow SMTP server never blocks the request. The order is loaded once and
// shared between the PDF and the email payload.
func (s *receiptService) EmailReceipt(ctx context.Context, orderID uuid.UUID, to string) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}

	path, err := s.renderPDF(ctx, order)
	if err != nil {
		return err
	}

	if s.dispatcher == nil {
		return apierror.NewInternal(errors.New("email dispatcher not configured"))
	}
	payload := worker.EmailJobPayload{
		ToEmail: to,
		Subject: fmt.Sprintf("Comprovante do pedido #%d", order.OrderNumber),
		Body:    fmt.Sprintf("Segue em anexo o comprovante do pedido #%d. Obrigado pela preferencia!", order.OrderNumber),
		PDFPath: path,
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		return apierror.NewInternal(err)
	}
	return nil
}
