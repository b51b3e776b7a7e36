package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/dto"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type StatsService interface {
	Daily(ctx context.Context, query dto.StatsRange) ([]dto.DailyStat, error)
	TopProducts(ctx context.Context, query dto.TopProductsQuery) ([]dto.ProductStat, error)
	Dashboard(ctx context.Context, days int) (*dto.DashboardResponse, error)
}

type statsService struct {
	repo      repository.StatsRepository
	rdb       *redis.Client
	cacheTTL  time.Duration
	// now is swappable for tests.
	now func() time.Time
}

func NewStatsService(repo repository.StatsRepository, rdb *redis.Client, cacheTTL time.Duration) StatsService {
	return &statsService{repo: repo, rdb: rdb, cacheTTL: cacheTTL, now: time.Now}
}

// parseRange resolves the requested date range to inclusive day boundaries:
// start at 00:00:00 and end at 23:59:59.999999999, local time. Defaults:
// end = today, start = 6 days before end. An end before start is rejected,
// never swapped or clamped.
func (s *statsService) parseRange(query dto.StatsRange) (time.Time, time.Time, error) {
	today := s.now()
	end := today
	if query.EndDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, query.EndDate, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, apierror.NewValidation("Data invalida", map[string]string{"endDate": "unparseable"})
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -6)
	if query.StartDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, query.StartDate, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, apierror.NewValidation("Data invalida", map[string]string{"startDate": "unparseable"})
		}
		start = parsed
	}

	start = startOfDay(start)
	end = endOfDay(end)
	if end.Before(start) {
		return time.Time{}, time.Time{}, apierror.NewValidation("Periodo invalido", map[string]string{"endDate": "before_start"})
	}
	return start, end, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// Daily produces the dense per-day series: every calendar day in range is
// present, zero-valued when no orders exist, so charts never skip days.
func (s *statsService) Daily(ctx context.Context, query dto.StatsRange) ([]dto.DailyStat, error) {
	start, end, err := s.parseRange(query)
	if err != nil {
		return nil, err
	}

	orders, fetchErr := s.repo.OrdersInRange(ctx, start, end, query.IncludeCancelled)
	if fetchErr != nil {
		return nil, apierror.NewInternal(fetchErr)
	}

	return buildDailySeries(orders, start, end), nil
}

func buildDailySeries(orders []model.Order, start, end time.Time) []dto.DailyStat {
	byDay := make(map[string][]*model.Order)
	for i := range orders {
		key := orders[i].CreatedAt.Format(dateLayout)
		byDay[key] = append(byDay[key], &orders[i])
	}

	var series []dto.DailyStat
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		stat := dto.DailyStat{
			Date:           key,
			TotalSales:     decimal.Zero,
			PaymentMethods: make(map[string]decimal.Decimal),
		}
		for _, o := range byDay[key] {
			stat.OrderCount++
			stat.TotalSales = stat.TotalSales.Add(o.Total)
			prev := stat.PaymentMethods[o.PaymentMethod]
			stat.PaymentMethods[o.PaymentMethod] = prev.Add(o.Total)
		}
		series = append(series, stat)
	}
	return series
}

// TopProducts groups all order items in range by product, sums quantity and
// subtotal, and returns the top entries by quantity.
func (s *statsService) TopProducts(ctx context.Context, query dto.TopProductsQuery) ([]dto.ProductStat, error) {
	start, end, err := s.parseRange(query.StatsRange)
	if err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit < 1 {
		limit = 10
	}

	orders, fetchErr := s.repo.OrdersInRange(ctx, start, end, query.IncludeCancelled)
	if fetchErr != nil {
		return nil, apierror.NewInternal(fetchErr)
	}

	return topProducts(orders, limit), nil
}

func topProducts(orders []model.Order, limit int) []dto.ProductStat {
	type acc struct {
		name     string
		quantity int
		total    decimal.Decimal
	}
	byProduct := make(map[string]*acc)

	for i := range orders {
		for _, item := range orders[i].Items {
			key := item.ProductID.String()
			a, ok := byProduct[key]
			if !ok {
				a = &acc{total: decimal.Zero}
				if item.Product != nil {
					a.name = item.Product.Name
				}
				byProduct[key] = a
			}
			a.quantity += item.Quantity
			a.total = a.total.Add(item.Subtotal)
		}
	}

	stats := make([]dto.ProductStat, 0, len(byProduct))
	for id, a := range byProduct {
		stats = append(stats, dto.ProductStat{
			ProductID:  id,
			Name:       a.name,
			Quantity:   a.quantity,
			TotalSales: a.total,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Quantity != stats[j].Quantity {
			return stats[i].Quantity > stats[j].Quantity
		}
		return stats[i].ProductID < stats[j].ProductID
	})
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// paymentBreakdown groups orders by payment method with each method's share
// of total sales. Shares sum to 100 when there are sales and to 0 otherwise;
// the division happens in decimal and crosses to float only on the way out.
func paymentBreakdown(orders []model.Order) []dto.PaymentMethodStat {
	type acc struct {
		count int
		total decimal.Decimal
	}
	byMethod := make(map[string]*acc)
	grand := decimal.Zero

	for i := range orders {
		a, ok := byMethod[orders[i].PaymentMethod]
		if !ok {
			a = &acc{total: decimal.Zero}
			byMethod[orders[i].PaymentMethod] = a
		}
		a.count++
		a.total = a.total.Add(orders[i].Total)
		grand = grand.Add(orders[i].Total)
	}

	stats := make([]dto.PaymentMethodStat, 0, len(byMethod))
	for method, a := range byMethod {
		pct := 0.0
		if grand.IsPositive() {
			pct, _ = a.total.Mul(decimal.NewFromInt(100)).Div(grand).Float64()
		}
		stats = append(stats, dto.PaymentMethodStat{
			Method:     method,
			OrderCount: a.count,
			Total:      a.total,
			Percentage: pct,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Total.GreaterThan(stats[j].Total) })
	return stats
}

// percentChange computes (current − previous) / previous × 100 with the
// division-by-zero policy: previous 0 and current > 0 reads as a full 100%
// increase; both 0 reads as no change.
func percentChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	pct, _ := current.Sub(previous).Mul(decimal.NewFromInt(100)).Div(previous).Float64()
	return pct
}

// Dashboard assembles the composite admin view for the last `days` days and
// the trend against the immediately preceding period of the same length.
// The response is cached in Redis for a short TTL; aggregation over decimals
// is cheap but the dashboard polls aggressively.
func (s *statsService) Dashboard(ctx context.Context, days int) (*dto.DashboardResponse, error) {
	if days < 1 {
		days = 7
	}

	cacheKey := fmt.Sprintf("stats:dashboard:%d", days)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.DashboardResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	today := s.now()
	curStart := startOfDay(today.AddDate(0, 0, -(days - 1)))
	curEnd := endOfDay(today)
	prevStart := curStart.AddDate(0, 0, -days)
	prevEnd := endOfDay(curStart.AddDate(0, 0, -1))

	current, err := s.repo.OrdersInRange(ctx, curStart, curEnd, false)
	if err != nil {
		return nil, apierror.NewInternal(err)
	}
	previous, err := s.repo.OrdersInRange(ctx, prevStart, prevEnd, false)
	if err != nil {
		return nil, apierror.NewInternal(err)
	}

	curSales, curCount, curAvg := periodTotals(current)
	prevSales, prevCount, prevAvg := periodTotals(previous)

	recent, err := s.repo.RecentOrders(ctx, 10)
	if err != nil {
		return nil, apierror.NewInternal(err)
	}
	recentResp := make([]dto.OrderResponse, 0, len(recent))
	for i := range recent {
		recentResp = append(recentResp, *orderToResponse(&recent[i]))
	}

	resp := &dto.DashboardResponse{
		TotalSales:        curSales,
		OrderCount:        curCount,
		AverageOrderValue: curAvg,
		Trend: dto.Trend{
			Sales:             percentChange(curSales, prevSales),
			Orders:            percentChange(decimal.NewFromInt(int64(curCount)), decimal.NewFromInt(int64(prevCount))),
			AverageOrderValue: percentChange(curAvg, prevAvg),
		},
		PaymentMethods: paymentBreakdown(current),
		TopProducts:    topProducts(current, 10),
		RecentOrders:   recentResp,
		DailySeries:    buildDailySeries(current, curStart, curEnd),
	}

	// Populate cache — best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), cacheKey, b, s.cacheTTL).Err()
		}
	}

	return resp, nil
}

// periodTotals sums sales and counts orders; the average stays in decimal
// (rounded to cents) so it never drifts through float arithmetic.
func periodTotals(orders []model.Order) (sales decimal.Decimal, count int, avg decimal.Decimal) {
	sales = decimal.Zero
	for i := range orders {
		sales = sales.Add(orders[i].Total)
	}
	count = len(orders)
	avg = decimal.Zero
	if count > 0 {
		avg = sales.Div(decimal.NewFromInt(int64(count))).Round(2)
	}
	return sales, count, avg
}
