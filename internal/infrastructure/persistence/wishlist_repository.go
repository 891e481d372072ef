package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shopping"
	"gorm.io/gorm"
)

// GormWishlistRepository implements shopping.WishlistRepository using GORM
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GormWishlistRepository
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// Create adds a wishlist entry
func (r *GormWishlistRepository) Create(ctx context.Context, item *shopping.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Delete removes a wishlist entry
func (r *GormWishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&shopping.WishlistItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByUserAndProduct finds the entry for a (user, product) pair
func (r *GormWishlistRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*shopping.WishlistItem, error) {
	var item shopping.WishlistItem
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

// FindByUser returns all wishlist entries for a user, newest first
func (r *GormWishlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.WishlistItem, error) {
	var items []*shopping.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

var _ shopping.WishlistRepository = (*GormWishlistRepository)(nil)
