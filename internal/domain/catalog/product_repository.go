package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFilter represents filter options for listing products.
// The price bounds apply to the effective price, so a product whose
// offer brings it under the cap matches even when its list price does
// not.
type ProductFilter struct {
	Page       int
	PageSize   int
	Search     string
	Category   string
	Brand      string
	ActiveOnly bool
	OffersOnly bool
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	OrderBy    string
	OrderDir   string
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *Product) error

	// Update updates an existing product
	Update(ctx context.Context, product *Product) error

	// Delete deletes a product by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// FindByIDsForUpdate finds multiple products by their IDs while
	// holding row locks for the rest of the enclosing transaction.
	// Checkout uses it so concurrent placements cannot both pass the
	// stock check against the same stale quantity.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// FindAll returns products matching the filter with pagination
	FindAll(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)

	// Count returns the total number of products
	Count(ctx context.Context) (int64, error)
}
