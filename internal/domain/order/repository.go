package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter represents filter options for listing orders. The date bounds
// select on placement time; PlacedBefore is exclusive so a day range
// can be expressed as [start, next day).
type Filter struct {
	Page          int
	PageSize      int
	UserID        *uuid.UUID
	Status        *Status
	PaymentStatus *PaymentStatus
	PlacedAfter   *time.Time
	PlacedBefore  *time.Time
	Search        string
}

// Repository defines the interface for order persistence
type Repository interface {
	// Create persists a new order with its items
	Create(ctx context.Context, o *Order) error

	// Update updates the order head (items are immutable)
	Update(ctx context.Context, o *Order) error

	// FindByID finds an order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order with its items by order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByPaymentSession finds the order a gateway session belongs to
	FindByPaymentSession(ctx context.Context, sessionID string) (*Order, error)

	// FindAll returns orders matching the filter with pagination,
	// newest first
	FindAll(ctx context.Context, filter Filter) ([]*Order, int64, error)

	// FindExpiredPending returns pending unpaid orders created before
	// the cutoff, used by the expiration sweep
	FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*Order, error)

	// Count returns the number of orders matching the filter
	Count(ctx context.Context, filter Filter) (int64, error)
}
