package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteRequest asks for a priced preview of the current cart
type QuoteRequest struct {
	CouponCode string `json:"coupon_code"`
}

// QuoteItem is one priced cart line in a quote
type QuoteItem struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	PricePerLitre  decimal.Decimal `json:"price_per_litre"`
	QuantityLitres int64           `json:"quantity_litres"`
	LineTotal      decimal.Decimal `json:"line_total"`
	Available      bool            `json:"available"`
}

// QuoteResponse is the server-priced cart preview shown before payment
type QuoteResponse struct {
	Items          []QuoteItem     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	CouponApplied  bool            `json:"coupon_applied"`
	CouponReason   string          `json:"coupon_reason,omitempty"`
}

// PlaceOrderRequest contains data for placing an order from the cart
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required,max=1000"`
	CouponCode      string `json:"coupon_code"`
}

// PaymentSessionResponse describes the gateway session the client pays
// against
type PaymentSessionResponse struct {
	SessionID   string          `json:"session_id"`
	Gateway     string          `json:"gateway"`
	Amount      decimal.Decimal `json:"amount"`
	AmountPaise int64           `json:"amount_paise"`
	Currency    string          `json:"currency"`
}

// PlaceOrderResponse is the placed order plus its payment session
type PlaceOrderResponse struct {
	OrderID        uuid.UUID               `json:"order_id"`
	OrderNumber    string                  `json:"order_number"`
	TotalAmount    decimal.Decimal         `json:"total_amount"`
	DiscountAmount decimal.Decimal         `json:"discount_amount"`
	FinalAmount    decimal.Decimal         `json:"final_amount"`
	CouponCode     *string                 `json:"coupon_code,omitempty"`
	Status         string                  `json:"status"`
	Payment        *PaymentSessionResponse `json:"payment,omitempty"`
}

// VerifyPaymentRequest carries the credentials the client receives from
// the gateway after a successful payment
type VerifyPaymentRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// VerifyPaymentResponse reports the order state after verification
type VerifyPaymentResponse struct {
	OrderID       uuid.UUID  `json:"order_id"`
	OrderNumber   string     `json:"order_number"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}
