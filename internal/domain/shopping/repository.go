package shopping

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// Upsert inserts the line or replaces the quantity of an existing
	// line for the same (user, product) pair
	Upsert(ctx context.Context, item *CartItem) error

	// Update updates an existing cart line
	Update(ctx context.Context, item *CartItem) error

	// Delete removes a cart line
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a cart line by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CartItem, error)

	// FindByUserAndProduct finds the line for a (user, product) pair
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*CartItem, error)

	// FindByUser returns all cart lines for a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*CartItem, error)

	// CountByUser returns the total litres across a user's cart
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// ClearByUser removes all cart lines for a user
	ClearByUser(ctx context.Context, userID uuid.UUID) error
}

// WishlistRepository defines the interface for wishlist persistence
type WishlistRepository interface {
	// Create adds a wishlist entry
	Create(ctx context.Context, item *WishlistItem) error

	// Delete removes a wishlist entry
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByUserAndProduct finds the entry for a (user, product) pair
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*WishlistItem, error)

	// FindByUser returns all wishlist entries for a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*WishlistItem, error)
}
