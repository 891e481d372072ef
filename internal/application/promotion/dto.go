package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oilmart/backend/internal/domain/promotion"
)

// CreateCouponRequest contains data for creating a coupon
type CreateCouponRequest struct {
	Code              string  `json:"code" binding:"required,max=50"`
	Description       string  `json:"description"`
	DiscountType      string  `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue     string  `json:"discount_value" binding:"required"`
	MinOrderAmount    *string `json:"min_order_amount"`
	MaxDiscountAmount *string `json:"max_discount_amount"`
	ValidUntil        *string `json:"valid_until"` // RFC3339
}

// UpdateCouponRequest contains data for updating a coupon
type UpdateCouponRequest struct {
	Description       string  `json:"description"`
	MinOrderAmount    *string `json:"min_order_amount"`
	MaxDiscountAmount *string `json:"max_discount_amount"`
	ValidUntil        *string `json:"valid_until"` // RFC3339, empty clears
}

// ListCouponsRequest contains filters for the admin coupon listing
type ListCouponsRequest struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
}

// ValidateCouponRequest asks for a discount preview against a subtotal
type ValidateCouponRequest struct {
	Code     string `json:"code" binding:"required"`
	Subtotal string `json:"subtotal" binding:"required"`
}

// CouponResponse is the coupon representation returned to clients
type CouponResponse struct {
	ID                uuid.UUID        `json:"id"`
	Code              string           `json:"code"`
	Description       string           `json:"description,omitempty"`
	DiscountType      string           `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MinOrderAmount    decimal.Decimal  `json:"min_order_amount"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount,omitempty"`
	ValidUntil        *time.Time       `json:"valid_until,omitempty"`
	IsActive          bool             `json:"is_active"`
	UsageCount        int64            `json:"usage_count"`
	CreatedAt         time.Time        `json:"created_at"`
}

// CouponListResponse contains a page of coupons
type CouponListResponse struct {
	Coupons  []CouponResponse `json:"coupons"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// ValidateCouponResponse is the discount preview for a coupon code
type ValidateCouponResponse struct {
	Code     string          `json:"code"`
	Valid    bool            `json:"valid"`
	Discount decimal.Decimal `json:"discount"`
	Final    decimal.Decimal `json:"final"`
	Reason   string          `json:"reason,omitempty"`
}

func toCouponResponse(coupon *promotion.Coupon) CouponResponse {
	return CouponResponse{
		ID:                coupon.ID,
		Code:              coupon.Code,
		Description:       coupon.Description,
		DiscountType:      string(coupon.DiscountType),
		DiscountValue:     coupon.DiscountValue,
		MinOrderAmount:    coupon.MinOrderAmount,
		MaxDiscountAmount: coupon.MaxDiscountAmount,
		ValidUntil:        coupon.ValidUntil,
		IsActive:          coupon.IsActive,
		UsageCount:        coupon.UsageCount,
		CreatedAt:         coupon.CreatedAt,
	}
}
