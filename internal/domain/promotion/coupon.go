package promotion

import (
	"strings"
	"time"

	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DiscountType represents how a coupon discount is computed
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage" // Percentage of the subtotal
	DiscountTypeFixed      DiscountType = "fixed"      // Fixed amount off
)

// Coupon validation errors
var (
	ErrCouponInactive = shared.NewDomainError("COUPON_INACTIVE", "Coupon is not active")
	ErrCouponExpired  = shared.NewDomainError("COUPON_EXPIRED", "Coupon has expired")
	ErrMinOrderNotMet = shared.NewDomainError("MIN_ORDER_NOT_MET", "Order subtotal is below the coupon minimum")
)

// Coupon represents a discount code
// It is the aggregate root for promotion operations
type Coupon struct {
	shared.BaseAggregateRoot
	Code              string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description       string           `gorm:"type:text"`
	DiscountType      DiscountType     `gorm:"type:varchar(20);not null"`
	DiscountValue     decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	MinOrderAmount    decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	MaxDiscountAmount *decimal.Decimal `gorm:"type:decimal(18,2)"`
	ValidUntil        *time.Time
	IsActive          bool  `gorm:"not null;default:true;index"`
	UsageCount        int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// NormalizeCode upper-cases and trims a coupon code
// Codes are matched case-insensitively, so this is applied on both
// write and lookup paths
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewCoupon creates a new active coupon
func NewCoupon(code string, discountType DiscountType, value decimal.Decimal) (*Coupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot exceed 50 characters")
	}
	if discountType != DiscountTypePercentage && discountType != DiscountTypeFixed {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be percentage or fixed")
	}
	if !value.IsPositive() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Discount value must be positive")
	}
	if discountType == DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Percentage discount cannot exceed 100")
	}

	return &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		DiscountType:      discountType,
		DiscountValue:     value,
		MinOrderAmount:    decimal.Zero,
		IsActive:          true,
	}, nil
}

// SetMinOrderAmount sets the minimum subtotal required to apply the coupon
func (c *Coupon) SetMinOrderAmount(amount valueobject.Money) error {
	if amount.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_MIN_ORDER", "Minimum order amount cannot be negative")
	}

	c.MinOrderAmount = amount.Amount()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetMaxDiscountAmount caps the discount a percentage coupon can grant
func (c *Coupon) SetMaxDiscountAmount(amount valueobject.Money) error {
	if !amount.Amount().IsPositive() {
		return shared.NewDomainError("INVALID_MAX_DISCOUNT", "Maximum discount must be positive")
	}

	cap := amount.Amount()
	c.MaxDiscountAmount = &cap
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetValidUntil sets the coupon expiry
func (c *Coupon) SetValidUntil(until time.Time) {
	c.ValidUntil = &until
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetDescription sets the coupon description
func (c *Coupon) SetDescription(description string) {
	c.Description = description
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate enables the coupon
func (c *Coupon) Activate() error {
	if c.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Coupon is already active")
	}

	c.IsActive = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate disables the coupon
func (c *Coupon) Deactivate() error {
	if !c.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Coupon is already inactive")
	}

	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsExpired returns true if the coupon expiry has passed
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ValidUntil != nil && c.ValidUntil.Before(now)
}

// DiscountFor computes the discount this coupon grants on the given
// subtotal, applying the full validation and capping rules:
//   - the coupon must be active and not expired
//   - the subtotal must reach the minimum order amount
//   - percentage discounts are capped at MaxDiscountAmount when set
//   - the discount never exceeds the subtotal
func (c *Coupon) DiscountFor(subtotal valueobject.Money, now time.Time) (valueobject.Money, error) {
	if !c.IsActive {
		return valueobject.Money{}, ErrCouponInactive
	}
	if c.IsExpired(now) {
		return valueobject.Money{}, ErrCouponExpired
	}
	if subtotal.Amount().LessThan(c.MinOrderAmount) {
		return valueobject.Money{}, ErrMinOrderNotMet
	}

	var discount valueobject.Money
	switch c.DiscountType {
	case DiscountTypePercentage:
		discount = subtotal.CalculatePercentage(c.DiscountValue)
		if c.MaxDiscountAmount != nil {
			capped, err := discount.Min(valueobject.NewMoneyINR(*c.MaxDiscountAmount))
			if err != nil {
				return valueobject.Money{}, err
			}
			discount = capped
		}
	case DiscountTypeFixed:
		discount = valueobject.NewMoneyINR(c.DiscountValue)
	default:
		return valueobject.Money{}, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Unknown discount type")
	}

	// A discount can never push the total below zero
	discount, err := discount.Min(subtotal)
	if err != nil {
		return valueobject.Money{}, err
	}

	return discount.Round(2), nil
}

// RecordUsage increments the usage counter after a successful order
func (c *Coupon) RecordUsage() {
	c.UsageCount++
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
