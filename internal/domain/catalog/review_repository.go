package catalog

import (
	"context"

	"github.com/google/uuid"
)

// RatingSummary holds the aggregate rating for a product
type RatingSummary struct {
	ProductID   uuid.UUID
	Average     float64
	ReviewCount int64
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// Save creates or updates a review
	Save(ctx context.Context, review *Review) error

	// Delete deletes a review by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a review by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByProductAndUser finds the review a user left on a product
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*Review, error)

	// FindByProduct returns all reviews for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*Review, error)

	// FindByUser returns all reviews written by a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Review, error)

	// RatingSummary returns the average rating and review count for a product
	RatingSummary(ctx context.Context, productID uuid.UUID) (*RatingSummary, error)
}
