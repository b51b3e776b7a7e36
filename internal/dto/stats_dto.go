package dto

import "github.com/shopspring/decimal"

// StatsRange is bound from the query string of the stats endpoints.
// Dates are YYYY-MM-DD, inclusive. Empty values default in the service.
type StatsRange struct {
	StartDate        string `form:"startDate"`
	EndDate          string `form:"endDate"`
	IncludeCancelled bool   `form:"includeCancelled"`
}

type TopProductsQuery struct {
	StatsRange
	Limit int `form:"limit,default=10" validate:"min=1,max=100"`
}

type DashboardQuery struct {
	Days int `form:"days,default=7" validate:"min=1,max=365"`
}

// DailyStat is one calendar day of the dense daily series. Days with no
// orders still appear with zero values so charts stay continuous.
type DailyStat struct {
	Date           string                     `json:"date"` // YYYY-MM-DD
	OrderCount     int                        `json:"order_count"`
	TotalSales     decimal.Decimal            `json:"total_sales"`
	PaymentMethods map[string]decimal.Decimal `json:"payment_methods"`
}

type ProductStat struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type PaymentMethodStat struct {
	Method     string          `json:"method"`
	OrderCount int             `json:"order_count"`
	Total      decimal.Decimal `json:"total"`
	// Percentage of total sales; float only at this serialization boundary.
	Percentage float64 `json:"percentage"`
}

// Trend compares the current period against the immediately preceding period
// of equal length. Percentages: previous 0 and current > 0 reports +100;
// both 0 reports 0.
type Trend struct {
	Sales             float64 `json:"sales"`
	Orders            float64 `json:"orders"`
	AverageOrderValue float64 `json:"average_order_value"`
}

type DashboardResponse struct {
	TotalSales        decimal.Decimal     `json:"total_sales"`
	OrderCount        int                 `json:"order_count"`
	AverageOrderValue decimal.Decimal     `json:"average_order_value"`
	Trend             Trend               `json:"trend"`
	PaymentMethods    []PaymentMethodStat `json:"payment_methods"`
	TopProducts       []ProductStat       `json:"top_products"`
	RecentOrders      []OrderResponse     `json:"recent_orders"`
	DailySeries       []DailyStat         `json:"daily_series"`
}
