package service

import (
	"context"
	"errors"
	"testing"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/dto"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SetAvailability(_ context.Context, id uuid.UUID, available bool) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsAvailable = available
	return nil
}

func (r *stubProductRepo) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubOrderRepo is an in-memory OrderRepository. failCreates makes the first
// N Create calls fail with err, which the service's retry loop must absorb.
type stubOrderRepo struct {
	orders         map[uuid.UUID]*model.Order
	counter        int
	counterMissing bool
	failCreates    int
	createErr      error
	createCalls    int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.Order) error {
	r.createCalls++
	if r.failCreates > 0 {
		r.failCreates--
		return r.createErr
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if filter.Status != "" && filter.Status != "all" && o.Status != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) ReplaceItems(_ context.Context, _ *gorm.DB, o *model.Order, items []model.OrderItem) error {
	o.Items = items
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) NextOrderNumber(_ context.Context, _ *gorm.DB) (int, error) {
	if r.counterMissing {
		return 0, repository.ErrCounterMissing
	}
	r.counter++
	return r.counter, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name, price string, available bool) *model.Product {
	p := &model.Product{
		ID:          uuid.New(),
		Name:        name,
		Price:       decimal.RequireFromString(price),
		CategoryID:  uuid.New(),
		IsAvailable: available,
	}
	repo.products[p.ID] = p
	return p
}

func buildOrderSvc() (OrderService, *stubOrderRepo, *stubProductRepo) {
	orderRepo := newStubOrderRepo()
	productRepo := newStubProductRepo()
	return NewOrderService(orderRepo, productRepo), orderRepo, productRepo
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreateOrder_TotalIsSumOfSubtotals(t *testing.T) {
	svc, _, productRepo := buildOrderSvc()
	burger := seedProduct(productRepo, "X-Salada", "18.90", true)
	soda := seedProduct(productRepo, "Refrigerante Lata", "6.50", true)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: burger.ID.String(), Quantity: 3},
			{ProductID: soda.ID.String(), Quantity: 2},
		},
		PaymentMethod: model.PaymentPix,
	})
	require.NoError(t, err)

	// 3 × 18.90 + 2 × 6.50 = 56.70 + 13.00 = 69.70, exact
	assert.Equal(t, "69.7", resp.Total.String())
	require.Len(t, resp.Items, 2)
	for _, item := range resp.Items {
		expected := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		assert.True(t, item.Subtotal.Equal(expected), "subtotal must equal price × quantity")
	}
}

func TestCreateOrder_SnapshotsPriceAtCreation(t *testing.T) {
	svc, orderRepo, productRepo := buildOrderSvc()
	p := seedProduct(productRepo, "Misto Quente", "12.00", true)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	// A later price change must not rewrite the stored snapshot.
	p.Price = decimal.RequireFromString("15.00")

	stored := orderRepo.orders[uuid.MustParse(resp.ID)]
	assert.Equal(t, "12", stored.Items[0].Price.String())
	assert.Equal(t, "12", stored.Total.String())
}

func TestCreateOrder_SequentialNumbers(t *testing.T) {
	svc, _, productRepo := buildOrderSvc()
	p := seedProduct(productRepo, "Suco de Laranja", "9.00", true)

	for want := 1; want <= 3; want++ {
		resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateOrderRequest{
			Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
			PaymentMethod: model.PaymentCash,
		})
		require.NoError(t, err)
		assert.Equal(t, want, resp.OrderNumber)
	}
}

func TestCreateOrder_CollectsAllInvalidProducts(t *testing.T) {
	svc, orderRepo, productRepo := buildOrderSvc()
	offMenu := seedProduct(productRepo, "Item Sazonal", "20.00", false)
	missing := uuid.New()

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: "not-a-uuid", Quantity: 1},
			{ProductID: missing.String(), Quantity: 1},
			{ProductID: offMenu.ID.String(), Quantity: 1},
		},
		PaymentMethod: model.PaymentCash,
	})
	require.Error(t, err)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "validation_error", apiErr.Code)

	// Every offending id is reported in a single response.
	assert.Equal(t, "invalid_id", apiErr.Fields["not-a-uuid"])
	assert.Equal(t, "not_found", apiErr.Fields[missing.String()])
	assert.Equal(t, "unavailable", apiErr.Fields[offMenu.ID.String()])

	// Nothing was persisted.
	assert.Empty(t, orderRepo.orders)
	assert.Zero(t, orderRepo.createCalls)
}

func TestCreateOrder_CounterMissingFallsBackToTimestamp(t *testing.T) {
	svc, orderRepo, productRepo := buildOrderSvc()
	orderRepo.counterMissing = true
	p := seedProduct(productRepo, "Pastel de Queijo", "8.00", true)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentDebitCard,
	})
	require.NoError(t, err)
	// Creation still succeeds; the number comes from the clock instead of the
	// counter, so it is large and positive rather than sequential.
	assert.Greater(t, resp.OrderNumber, 1_000_000)
}

func TestCreateOrder_RetriesOnUniqueConflict(t *testing.T) {
	svc, orderRepo, productRepo := buildOrderSvc()
	orderRepo.failCreates = 1
	orderRepo.createErr = errors.New("UNIQUE constraint failed: orders.order_number")
	p := seedProduct(productRepo, "Coxinha", "7.50", true)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
		PaymentMethod: model.PaymentCreditCard,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, orderRepo.createCalls)
	assert.Equal(t, "15", resp.Total.String())
}

func TestCreateOrder_ConflictAfterRetriesExhausted(t *testing.T) {
	svc, orderRepo, productRepo := buildOrderSvc()
	orderRepo.failCreates = 10
	orderRepo.createErr = errors.New("UNIQUE constraint failed: orders.order_number")
	p := seedProduct(productRepo, "Empada", "6.00", true)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	require.Error(t, err)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "conflict", apiErr.Code)
	assert.Equal(t, orderNumberRetries, orderRepo.createCalls)
}

func TestUpdateStatus_AnyValidTransitionAccepted(t *testing.T) {
	svc, _, productRepo := buildOrderSvc()
	p := seedProduct(productRepo, "Cafe Expresso", "5.00", true)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	// Forward, backward and repeated transitions are all fine.
	for _, status := range []string{
		model.StatusDelivered,
		model.StatusPreparing,
		model.StatusCancelled,
		model.StatusCancelled, // re-cancel is idempotent
		model.StatusReady,
	} {
		updated, err := svc.UpdateStatus(context.Background(), id, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestUpdateStatus_RejectsUnknownValue(t *testing.T) {
	svc, _, productRepo := buildOrderSvc()
	p := seedProduct(productRepo, "Pao de Queijo", "4.00", true)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), uuid.MustParse(resp.ID), "SHIPPED")
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "validation_error", apiErr.Code)
	assert.Equal(t, "unknown_value", apiErr.Fields["status"])
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, _ := buildOrderSvc()
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), model.StatusReady)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestUpdateOrder_ReplacesItemsAtCurrentPrices(t *testing.T) {
	svc, orderRepo, productRepo := buildOrderSvc()
	old := seedProduct(productRepo, "Hamburguer", "15.00", true)
	extra := seedProduct(productRepo, "Batata Frita", "10.00", true)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: old.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	// Price rises between creation and edit; new item set uses the NEW price.
	old.Price = decimal.RequireFromString("17.00")

	updated, err := svc.Update(context.Background(), id, dto.UpdateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: old.ID.String(), Quantity: 2},
			{ProductID: extra.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "44", updated.Total.String()) // 2×17 + 10
	assert.Len(t, orderRepo.orders[id].Items, 2)
}

func TestDeleteOrder_NotFound(t *testing.T) {
	svc, _, _ := buildOrderSvc()
	err := svc.Delete(context.Background(), uuid.New())

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestListOrders_LimitClampedToBounds(t *testing.T) {
	svc, _, _ := buildOrderSvc()

	resp, err := svc.List(context.Background(), dto.OrderFilter{Limit: 100000})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Limit)

	resp, err = svc.List(context.Background(), dto.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.Limit)
	assert.Equal(t, 1, resp.Page)
}
