package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/dto"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderNumberRetries bounds the re-attempts when the unique index on
// order_number rejects an insert (counter desync after a restore, or the
// timestamp fallback colliding).
const orderNumberRetries = 3

type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.OrderResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	repo        repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewOrderService(repo repository.OrderRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{repo: repo, productRepo: productRepo}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// resolveItems validates every requested line against the catalog and builds
// priced OrderItems. ALL offending product ids are collected before failing,
// so the client can fix the whole cart in one round trip. Prices are
// snapshotted from the current product price; subtotal = price × quantity in
// exact decimal arithmetic.
func (s *orderService) resolveItems(ctx context.Context, items []dto.OrderItemRequest) ([]model.OrderItem, decimal.Decimal, error) {
	fields := make(map[string]string)

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			fields[item.ProductID] = "invalid_id"
			continue
		}
		ids = append(ids, pid)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, apierror.NewInternal(err)
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	resolved := make([]model.OrderItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			continue // already recorded above
		}
		p, ok := byID[pid]
		if !ok {
			fields[item.ProductID] = "not_found"
			continue
		}
		if !p.IsAvailable {
			fields[item.ProductID] = "unavailable"
			continue
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		resolved = append(resolved, model.OrderItem{
			ID:        uuid.New(),
			ProductID: pid,
			Quantity:  item.Quantity,
			Price:     p.Price,
			Subtotal:  subtotal,
			Note:      item.Note,
		})
		total = total.Add(subtotal)
	}

	if len(fields) > 0 {
		return nil, decimal.Zero, apierror.NewValidation("Produtos invalidos ou indisponiveis", fields)
	}
	return resolved, total, nil
}

// Create builds and persists an order:
//  1. Resolve every product, collect all invalid ids, price each line.
//  2. Inside one transaction: allocate the next order number from the
//     counter row and insert the order with its items.
//  3. On a unique-index conflict on order_number, re-run the transaction
//     (bounded retries); surface a conflict error when exhausted.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	items, total, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	var order model.Order
	var lastErr error
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		order = model.Order{
			ID:            uuid.New(),
			Status:        model.StatusPending,
			Total:         total,
			UserID:        userID,
			CustomerName:  req.CustomerName,
			PaymentMethod: req.PaymentMethod,
			Items:         cloneItems(items),
		}

		txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			num, err := s.repo.NextOrderNumber(ctx, tx)
			if err != nil {
				if !errors.Is(err, repository.ErrCounterMissing) {
					return err
				}
				// Degraded path: the counter row is gone. A coarse
				// timestamp number keeps sales flowing but gives up strict
				// monotonicity; uniqueness rests on the index alone.
				num = fallbackOrderNumber()
				log.Warn().
					Int("order_number", num).
					Msg("order counter unavailable, using timestamp-derived number")
			}
			order.OrderNumber = num
			return s.repo.Create(ctx, tx, &order)
		})
		if txErr == nil {
			lastErr = nil
			break
		}
		lastErr = txErr
		if repository.IsUniqueViolation(txErr) {
			log.Warn().Int("attempt", attempt+1).Err(txErr).Msg("order number conflict, retrying")
			continue
		}
		break
	}

	if lastErr != nil {
		switch {
		case repository.IsUniqueViolation(lastErr):
			return nil, apierror.NewConflict("Numero de pedido duplicado", "order_number").WithCause(lastErr)
		case isForeignKeyViolation(lastErr):
			return nil, apierror.NewConflict("Referencia invalida no pedido", "foreign_key").WithCause(lastErr)
		default:
			return nil, apierror.NewInternal(lastErr)
		}
	}

	return s.load(ctx, order.ID)
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	return s.load(ctx, id)
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.NewInternal(err)
	}
	data := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		data = append(data, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Update rewrites customer name / payment method and, when items are sent,
// replaces the whole item set. Replaced items are re-validated and re-priced
// from CURRENT product prices inside one transaction, so a partial failure
// never leaves the total out of sync with the items.
func (s *orderService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Pedido nao encontrado")
		}
		return nil, apierror.NewInternal(err)
	}

	if req.CustomerName != nil {
		order.CustomerName = req.CustomerName
	}
	if req.PaymentMethod != nil {
		order.PaymentMethod = *req.PaymentMethod
	}

	if req.Items != nil {
		items, total, rErr := s.resolveItems(ctx, req.Items)
		if rErr != nil {
			return nil, rErr
		}
		order.Total = total
		if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			return s.repo.ReplaceItems(ctx, tx, order, items)
		}); err != nil {
			return nil, apierror.NewInternal(err)
		}
	} else {
		if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			return s.repo.ReplaceItems(ctx, tx, order, order.Items)
		}); err != nil {
			return nil, apierror.NewInternal(err)
		}
	}

	return s.load(ctx, id)
}

// UpdateStatus overwrites the order status. Transitions are deliberately
// permissive: any valid enum value is accepted regardless of the current
// status, including re-applying the same value. Only out-of-enum input is
// rejected.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.OrderResponse, error) {
	if !model.ValidStatus(status) {
		return nil, apierror.NewValidation("Status invalido", map[string]string{"status": "unknown_value"})
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Pedido nao encontrado")
		}
		return nil, apierror.NewInternal(err)
	}
	return s.load(ctx, id)
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewNotFound("Pedido nao encontrado")
		}
		return apierror.NewInternal(err)
	}
	return nil
}

func (s *orderService) load(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Pedido nao encontrado")
		}
		return nil, apierror.NewInternal(err)
	}
	return orderToResponse(order), nil
}

// cloneItems gives each retry attempt its own item slice; gorm mutates the
// inserted rows.
func cloneItems(items []model.OrderItem) []model.OrderItem {
	out := make([]model.OrderItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].ID = uuid.New()
	}
	return out
}

// fallbackOrderNumber derives a coarse number from the clock. Seconds since
// a fixed recent epoch keeps the value in a readable range.
func fallbackOrderNumber() int {
	const epoch = 1700000000 // 2023-11-14, well before first deployment
	return int(time.Now().Unix() - epoch)
}

func isForeignKeyViolation(err error) bool {
	return err != nil && (errors.Is(err, gorm.ErrForeignKeyViolated) ||
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed"))
}

// ─── Mapping ─────────────────────────────────────────────────────────────────

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
			Note:      item.Note,
		})
	}

	user := dto.OrderUserSummary{ID: o.UserID.String()}
	if o.User != nil {
		user.Name = o.User.Name
	}

	var comments []dto.CommentResponse
	for i := range o.Comments {
		comments = append(comments, *commentToResponse(&o.Comments[i]))
	}

	return &dto.OrderResponse{
		ID:            o.ID.String(),
		OrderNumber:   o.OrderNumber,
		Status:        o.Status,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		CustomerName:  o.CustomerName,
		Items:         items,
		User:          user,
		Comments:      comments,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     o.UpdatedAt.Format(time.RFC3339),
	}
}
