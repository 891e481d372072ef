package catalog

import (
	"github.com/google/uuid"
	"github.com/oilmart/backend/internal/domain/shared"
)

// Review represents a customer review of a product
// Each user can have at most one review per product
type Review struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:2"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a new review
func NewReview(productID, userID uuid.UUID, rating int, comment string) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if err := validateReview(rating, comment); err != nil {
		return nil, err
	}

	return &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		UserID:            userID,
		Rating:            rating,
		Comment:           comment,
	}, nil
}

// Update replaces the rating and comment
func (r *Review) Update(rating int, comment string) error {
	if err := validateReview(rating, comment); err != nil {
		return err
	}

	r.Rating = rating
	r.Comment = comment
	r.Touch()
	r.IncrementVersion()

	return nil
}

// BelongsTo returns true if the review was written by the given user
func (r *Review) BelongsTo(userID uuid.UUID) bool {
	return r.UserID == userID
}

func validateReview(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	if len(comment) > 2000 {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 2000 characters")
	}
	return nil
}
