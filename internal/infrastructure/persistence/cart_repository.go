package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shopping"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements shopping.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Upsert inserts the line or replaces the quantity of the existing line
// for the same (user, product) pair. The unique index on
// (user_id, product_id) backs the conflict target.
func (r *GormCartRepository) Upsert(ctx context.Context, item *shopping.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity_litres": item.QuantityLitres,
			"updated_at":      item.UpdatedAt,
		}),
	}).Create(item).Error
}

// Update updates an existing cart line
func (r *GormCartRepository) Update(ctx context.Context, item *shopping.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes a cart line
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&shopping.CartItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a cart line by ID
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*shopping.CartItem, error) {
	var item shopping.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByUserAndProduct finds the line for a (user, product) pair
func (r *GormCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*shopping.CartItem, error) {
	var item shopping.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByUser returns all cart lines for a user, oldest first so the
// cart keeps a stable display order
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.CartItem, error) {
	var items []*shopping.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountByUser returns the total litres across a user's cart
func (r *GormCartRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&shopping.CartItem{}).
		Select("COALESCE(SUM(quantity_litres), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ClearByUser removes all cart lines for a user
func (r *GormCartRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&shopping.CartItem{}).Error
}

var _ shopping.CartRepository = (*GormCartRepository)(nil)
