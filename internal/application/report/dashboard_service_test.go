package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/identity"
	"github.com/oilmart/backend/internal/domain/shared"
)

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) OrderStats(ctx context.Context, since *time.Time) (*OrderStats, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OrderStats), args.Error(1)
}

func (m *MockStatsRepository) TopProducts(ctx context.Context, since time.Time, limit int) ([]ProductSales, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ProductSales), args.Error(1)
}

func (m *MockStatsRepository) DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DailySales), args.Error(1)
}

// countOnlyUserRepo stubs the user count without a full repository mock
type countOnlyUserRepo struct {
	identity.UserRepository
	count int64
}

func (r countOnlyUserRepo) Count(_ context.Context) (int64, error) { return r.count, nil }

// countOnlyProductRepo stubs the product count
type countOnlyProductRepo struct {
	catalog.ProductRepository
	count int64
}

func (r countOnlyProductRepo) Count(_ context.Context) (int64, error) { return r.count, nil }

func TestDashboardService_Dashboard(t *testing.T) {
	stats := new(MockStatsRepository)
	service := NewDashboardService(stats, countOnlyUserRepo{count: 42}, countOnlyProductRepo{count: 7}, zap.NewNop())
	ctx := context.Background()

	stats.On("OrderStats", ctx, (*time.Time)(nil)).Return(&OrderStats{
		TotalOrders:      120,
		PendingOrders:    5,
		ProcessingOrders: 10,
		DeliveredOrders:  100,
		CancelledOrders:  5,
		Revenue:          decimal.NewFromInt(250000),
		LitresSold:       900,
	}, nil)

	resp, err := service.Dashboard(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.TotalUsers)
	assert.Equal(t, int64(7), resp.TotalProducts)
	assert.Equal(t, int64(120), resp.TotalOrders)
	assert.True(t, resp.Revenue.Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, int64(900), resp.LitresSold)
}

func TestDashboardService_SalesReport(t *testing.T) {
	stats := new(MockStatsRepository)
	service := NewDashboardService(stats, countOnlyUserRepo{}, countOnlyProductRepo{}, zap.NewNop())
	ctx := context.Background()

	productID := uuid.New()
	stats.On("OrderStats", ctx, mock.AnythingOfType("*time.Time")).Return(&OrderStats{
		TotalOrders: 3,
		Revenue:     decimal.NewFromInt(4500),
		LitresSold:  9,
	}, nil)
	stats.On("DailySales", ctx, mock.Anything, mock.Anything).Return([]DailySales{
		{Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), OrderCount: 3, Revenue: decimal.NewFromInt(4500)},
	}, nil)
	stats.On("TopProducts", ctx, mock.Anything, 10).Return([]ProductSales{
		{ProductID: productID, ProductName: "Sunflower Oil 1L", QuantityLitres: 9, Revenue: decimal.NewFromInt(4500)},
	}, nil)

	resp, err := service.SalesReport(ctx, SalesReportRequest{From: "2026-08-01", To: "2026-08-28"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Orders)
	require.Len(t, resp.Daily, 1)
	assert.Equal(t, "2026-08-01", resp.Daily[0].Date)
	require.Len(t, resp.TopProducts, 1)
	assert.Equal(t, productID, resp.TopProducts[0].ProductID)
}

func TestDashboardService_SalesReport_BadDate(t *testing.T) {
	service := NewDashboardService(new(MockStatsRepository), countOnlyUserRepo{}, countOnlyProductRepo{}, zap.NewNop())

	_, err := service.SalesReport(context.Background(), SalesReportRequest{From: "01-08-2026"})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DATE", domainErr.Code)
}

func TestDashboardService_SalesReport_InvertedRange(t *testing.T) {
	service := NewDashboardService(new(MockStatsRepository), countOnlyUserRepo{}, countOnlyProductRepo{}, zap.NewNop())

	_, err := service.SalesReport(context.Background(), SalesReportRequest{From: "2026-08-28", To: "2026-08-01"})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DATE_RANGE", domainErr.Code)
}
