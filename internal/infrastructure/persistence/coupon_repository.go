package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oilmart/backend/internal/domain/promotion"
	"github.com/oilmart/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCouponRepository implements promotion.CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// Create creates a new coupon
func (r *GormCouponRepository) Create(ctx context.Context, coupon *promotion.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

// Update updates an existing coupon
func (r *GormCouponRepository) Update(ctx context.Context, coupon *promotion.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

// Delete deletes a coupon by ID
func (r *GormCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&promotion.Coupon{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a coupon by ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Coupon, error) {
	var coupon promotion.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByCode finds a coupon by its normalized code
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*promotion.Coupon, error) {
	var coupon promotion.Coupon
	if err := r.db.WithContext(ctx).
		Where("code = ?", promotion.NormalizeCode(code)).
		First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindAll returns coupons matching the filter with pagination
func (r *GormCouponRepository) FindAll(ctx context.Context, filter promotion.CouponFilter) ([]*promotion.Coupon, int64, error) {
	var coupons []*promotion.Coupon
	var total int64

	base := r.db.WithContext(ctx).Model(&promotion.Coupon{})

	if err := r.applyConditions(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyConditions(base.Session(&gorm.Session{}), filter).
		Order("created_at DESC")
	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// IncrementUsage atomically bumps the usage counter
func (r *GormCouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&promotion.Coupon{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCouponRepository) applyConditions(query *gorm.DB, filter promotion.CouponFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	return query
}

var _ promotion.CouponRepository = (*GormCouponRepository)(nil)
