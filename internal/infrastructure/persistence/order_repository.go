package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oilmart/backend/internal/domain/order"
	"github.com/oilmart/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create persists a new order along with its item snapshots
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// Update updates the order head. Items are immutable once placed, so
// the association is skipped to avoid GORM re-saving child rows.
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(o).Error
}

// FindByID finds an order with its items by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order with its items by order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByPaymentSession finds the order a gateway session belongs to
func (r *GormOrderRepository) FindByPaymentSession(ctx context.Context, sessionID string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_session_id = ?", sessionID).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll returns orders matching the filter with pagination, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.Filter) ([]*order.Order, int64, error) {
	var orders []*order.Order
	var total int64

	base := r.db.WithContext(ctx).Model(&order.Order{})

	if err := r.applyConditions(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyConditions(base.Session(&gorm.Session{}), filter).
		Preload("Items").
		Order("created_at DESC")
	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// FindExpiredPending returns pending unpaid orders created before the
// cutoff, oldest first so the sweep drains the backlog in order
func (r *GormOrderRepository) FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	var orders []*order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", order.StatusPending).
		Where("payment_status IN ?", []order.PaymentStatus{order.PaymentStatusPending, order.PaymentStatusFailed}).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count returns the number of orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter order.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&order.Order{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrderRepository) applyConditions(query *gorm.DB, filter order.Filter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.PlacedAfter != nil {
		query = query.Where("created_at >= ?", *filter.PlacedAfter)
	}
	if filter.PlacedBefore != nil {
		query = query.Where("created_at < ?", *filter.PlacedBefore)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR shipping_address ILIKE ?", pattern, pattern)
	}
	return query
}

var _ order.Repository = (*GormOrderRepository)(nil)
