package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesReportRequest selects the date range and ranking size
type SalesReportRequest struct {
	From string `form:"from"` // YYYY-MM-DD
	To   string `form:"to"`   // YYYY-MM-DD
	TopN int    `form:"top_n"`
}

// DashboardResponse is the admin dashboard headline block
type DashboardResponse struct {
	TotalUsers       int64           `json:"total_users"`
	TotalProducts    int64           `json:"total_products"`
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	ProcessingOrders int64           `json:"processing_orders"`
	ShippedOrders    int64           `json:"shipped_orders"`
	DeliveredOrders  int64           `json:"delivered_orders"`
	CancelledOrders  int64           `json:"cancelled_orders"`
	Revenue          decimal.Decimal `json:"revenue"`
	LitresSold       int64           `json:"litres_sold"`
}

// DailySalesResponse is one day of the sales report breakdown
type DailySalesResponse struct {
	Date       string          `json:"date"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// ProductSalesResponse is one row of the best-sellers ranking
type ProductSalesResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	QuantityLitres int64           `json:"quantity_litres"`
	Revenue        decimal.Decimal `json:"revenue"`
}

// SalesReportResponse is the aggregated sales report for a date range
type SalesReportResponse struct {
	From        time.Time              `json:"from"`
	To          time.Time              `json:"to"`
	Orders      int64                  `json:"orders"`
	Revenue     decimal.Decimal        `json:"revenue"`
	LitresSold  int64                  `json:"litres_sold"`
	Daily       []DailySalesResponse   `json:"daily"`
	TopProducts []ProductSalesResponse `json:"top_products"`
}
