package shopping

import (
	"github.com/google/uuid"
	"github.com/oilmart/backend/internal/domain/shared"
)

// MaxQuantityPerItem caps how many litres of one product a cart may hold
const MaxQuantityPerItem = 1000

// CartItem represents one product line in a user's cart
// A user has at most one line per product
type CartItem struct {
	shared.BaseEntity
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:1"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:2"`
	QuantityLitres int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCartItem creates a new cart line
func NewCartItem(userID, productID uuid.UUID, quantity int64) (*CartItem, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	return &CartItem{
		BaseEntity:     shared.NewBaseEntity(),
		UserID:         userID,
		ProductID:      productID,
		QuantityLitres: quantity,
	}, nil
}

// SetQuantity replaces the quantity on the line
func (c *CartItem) SetQuantity(quantity int64) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	c.QuantityLitres = quantity
	c.Touch()

	return nil
}

// Increment adds one litre to the line
func (c *CartItem) Increment() error {
	return c.SetQuantity(c.QuantityLitres + 1)
}

// Decrement removes one litre from the line
// Returns true if the line reached zero and should be removed
func (c *CartItem) Decrement() (bool, error) {
	if c.QuantityLitres <= 1 {
		return true, nil
	}
	if err := c.SetQuantity(c.QuantityLitres - 1); err != nil {
		return false, err
	}
	return false, nil
}

func validateQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > MaxQuantityPerItem {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity exceeds the per-item limit")
	}
	return nil
}
