package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/identity"
	"github.com/oilmart/backend/internal/domain/shared"
)

// OrderStats are order counters and revenue aggregated by the database
type OrderStats struct {
	TotalOrders      int64
	PendingOrders    int64
	ProcessingOrders int64
	ShippedOrders    int64
	DeliveredOrders  int64
	CancelledOrders  int64
	Revenue          decimal.Decimal
	LitresSold       int64
}

// ProductSales is one row of the best-sellers ranking
type ProductSales struct {
	ProductID      uuid.UUID
	ProductName    string
	QuantityLitres int64
	Revenue        decimal.Decimal
}

// DailySales is one day of aggregated paid orders
type DailySales struct {
	Date       time.Time
	OrderCount int64
	Revenue    decimal.Decimal
}

// StatsRepository runs the aggregate queries behind the admin
// dashboard. Revenue always means the final amount of paid orders;
// pending and cancelled orders never count towards it.
type StatsRepository interface {
	// OrderStats aggregates order counters, optionally from a point in time
	OrderStats(ctx context.Context, since *time.Time) (*OrderStats, error)

	// TopProducts ranks products by litres sold in paid orders
	TopProducts(ctx context.Context, since time.Time, limit int) ([]ProductSales, error)

	// DailySales buckets paid orders per day over a date range
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
}

// DashboardService backs the admin dashboard and sales report views
type DashboardService struct {
	statsRepo   StatsRepository
	userRepo    identity.UserRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	statsRepo StatsRepository,
	userRepo identity.UserRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		statsRepo:   statsRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Dashboard returns the all-time storefront headline numbers
func (s *DashboardService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	stats, err := s.statsRepo.OrderStats(ctx, nil)
	if err != nil {
		s.logger.Error("Failed to aggregate order stats", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute dashboard")
	}

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute dashboard")
	}

	products, err := s.productRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute dashboard")
	}

	return &DashboardResponse{
		TotalUsers:       users,
		TotalProducts:    products,
		TotalOrders:      stats.TotalOrders,
		PendingOrders:    stats.PendingOrders,
		ProcessingOrders: stats.ProcessingOrders,
		ShippedOrders:    stats.ShippedOrders,
		DeliveredOrders:  stats.DeliveredOrders,
		CancelledOrders:  stats.CancelledOrders,
		Revenue:          stats.Revenue,
		LitresSold:       stats.LitresSold,
	}, nil
}

// SalesReport aggregates paid orders over a date range, with a daily
// breakdown and a best-sellers ranking. The range defaults to the last
// 30 days.
func (s *DashboardService) SalesReport(ctx context.Context, req SalesReportRequest) (*SalesReportResponse, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if req.From != "" {
		parsed, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "From date must be YYYY-MM-DD")
		}
		from = parsed
	}
	if req.To != "" {
		parsed, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "To date must be YYYY-MM-DD")
		}
		// Include the whole end day
		to = parsed.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "From date must be before to date")
	}

	topN := req.TopN
	if topN < 1 || topN > 50 {
		topN = 10
	}

	stats, err := s.statsRepo.OrderStats(ctx, &from)
	if err != nil {
		s.logger.Error("Failed to aggregate order stats", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute sales report")
	}

	daily, err := s.statsRepo.DailySales(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to aggregate daily sales", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute sales report")
	}

	top, err := s.statsRepo.TopProducts(ctx, from, topN)
	if err != nil {
		s.logger.Error("Failed to rank products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute sales report")
	}

	resp := &SalesReportResponse{
		From:       from,
		To:         to,
		Orders:     stats.TotalOrders,
		Revenue:    stats.Revenue,
		LitresSold: stats.LitresSold,
	}
	for _, day := range daily {
		resp.Daily = append(resp.Daily, DailySalesResponse{
			Date:       day.Date.Format("2006-01-02"),
			OrderCount: day.OrderCount,
			Revenue:    day.Revenue,
		})
	}
	for _, row := range top {
		resp.TopProducts = append(resp.TopProducts, ProductSalesResponse{
			ProductID:      row.ProductID,
			ProductName:    row.ProductName,
			QuantityLitres: row.QuantityLitres,
			Revenue:        row.Revenue,
		})
	}

	return resp, nil
}
