package persistence

import (
	"context"
	"time"

	"github.com/oilmart/backend/internal/application/report"
	"github.com/oilmart/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormStatsRepository implements report.StatsRepository with aggregate
// queries over the orders and order_items tables
type GormStatsRepository struct {
	db *gorm.DB
}

// NewGormStatsRepository creates a new GormStatsRepository
func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

// OrderStats aggregates order counters, optionally from a point in time.
// Revenue and litres sold only count paid orders.
func (r *GormStatsRepository) OrderStats(ctx context.Context, since *time.Time) (*report.OrderStats, error) {
	var stats report.OrderStats

	query := r.db.WithContext(ctx).Model(&order.Order{}).
		Select(`COUNT(*) AS total_orders,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_orders,
			COUNT(*) FILTER (WHERE status = 'processing') AS processing_orders,
			COUNT(*) FILTER (WHERE status = 'shipped') AS shipped_orders,
			COUNT(*) FILTER (WHERE status = 'delivered') AS delivered_orders,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_orders,
			COALESCE(SUM(final_amount) FILTER (WHERE payment_status = 'paid'), 0) AS revenue`)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	if err := query.Scan(&stats).Error; err != nil {
		return nil, err
	}

	litres := r.db.WithContext(ctx).Model(&order.OrderItem{}).
		Select("COALESCE(SUM(order_items.quantity_litres), 0)").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ?", order.PaymentStatusPaid)
	if since != nil {
		litres = litres.Where("orders.created_at >= ?", *since)
	}
	if err := litres.Scan(&stats.LitresSold).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// TopProducts ranks products by litres sold in paid orders
func (r *GormStatsRepository) TopProducts(ctx context.Context, since time.Time, limit int) ([]report.ProductSales, error) {
	var rows []report.ProductSales
	if err := r.db.WithContext(ctx).Model(&order.OrderItem{}).
		Select(`order_items.product_id,
			MAX(order_items.product_name) AS product_name,
			SUM(order_items.quantity_litres) AS quantity_litres,
			SUM(order_items.total_price) AS revenue`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ?", order.PaymentStatusPaid).
		Where("orders.created_at >= ?", since).
		Group("order_items.product_id").
		Order("quantity_litres DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DailySales buckets paid orders per day over a date range
func (r *GormStatsRepository) DailySales(ctx context.Context, from, to time.Time) ([]report.DailySales, error) {
	var rows []report.DailySales
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Select(`DATE_TRUNC('day', created_at) AS date,
			COUNT(*) AS order_count,
			COALESCE(SUM(final_amount), 0) AS revenue`).
		Where("payment_status = ?", order.PaymentStatusPaid).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("DATE_TRUNC('day', created_at)").
		Order("date ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var _ report.StatsRepository = (*GormStatsRepository)(nil)
