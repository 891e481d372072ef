package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReviewRepository implements catalog.ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, review *catalog.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// Delete deletes a review by ID
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Review, error) {
	var review catalog.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// FindByProductAndUser finds the review a user left on a product
func (r *GormReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*catalog.Review, error) {
	var review catalog.Review
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// FindByProduct returns all reviews for a product, newest first
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.Review, error) {
	var reviews []*catalog.Review
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByUser returns all reviews written by a user
func (r *GormReviewRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*catalog.Review, error) {
	var reviews []*catalog.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// RatingSummary returns the average rating and review count for a product.
// A product with no reviews yields a zero average, not an error.
func (r *GormReviewRepository) RatingSummary(ctx context.Context, productID uuid.UUID) (*catalog.RatingSummary, error) {
	var row struct {
		Average     float64
		ReviewCount int64
	}
	if err := r.db.WithContext(ctx).Model(&catalog.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS review_count").
		Where("product_id = ?", productID).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &catalog.RatingSummary{
		ProductID:   productID,
		Average:     row.Average,
		ReviewCount: row.ReviewCount,
	}, nil
}

var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)
