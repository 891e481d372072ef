package promotion

import (
	"context"

	"github.com/google/uuid"
)

// CouponFilter represents filter options for listing coupons
type CouponFilter struct {
	Page       int
	PageSize   int
	Search     string
	ActiveOnly bool
}

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	// Create creates a new coupon
	Create(ctx context.Context, coupon *Coupon) error

	// Update updates an existing coupon
	Update(ctx context.Context, coupon *Coupon) error

	// Delete deletes a coupon by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a coupon by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)

	// FindByCode finds a coupon by its normalized code
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// FindAll returns coupons matching the filter with pagination
	FindAll(ctx context.Context, filter CouponFilter) ([]*Coupon, int64, error)

	// IncrementUsage atomically bumps the usage counter
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}
