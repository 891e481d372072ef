package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oilmart/backend/internal/domain/order"
)

// MyOrdersRequest contains pagination for a customer's order history
type MyOrdersRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// ListOrdersRequest contains filters for the admin order listing.
// The date bounds take YYYY-MM-DD; To is inclusive of the whole day.
type ListOrdersRequest struct {
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	From          string `form:"from"`
	To            string `form:"to"`
	Search        string `form:"search"`
}

// UpdateStatusRequest moves an order to a new fulfilment status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=processing shipped delivered cancelled"`
}

// UpdatePaymentStatusRequest reconciles an order's payment manually
type UpdatePaymentStatusRequest struct {
	PaymentStatus    string `json:"payment_status" binding:"required,oneof=paid refunded"`
	PaymentReference string `json:"payment_reference"`
}

// OrderItemResponse is one snapshotted line of an order
type OrderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	PricePerLitre  decimal.Decimal `json:"price_per_litre"`
	QuantityLitres int64           `json:"quantity_litres"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

// OrderResponse is the order representation returned to clients
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	UserID          uuid.UUID           `json:"user_id"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	FinalAmount     decimal.Decimal     `json:"final_amount"`
	CouponCode      *string             `json:"coupon_code,omitempty"`
	ShippingAddress string              `json:"shipping_address"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	Items           []OrderItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// OrderListResponse contains a page of orders
type OrderListResponse struct {
	Orders   []OrderResponse `json:"orders"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func toOrderResponse(o *order.Order, withItems bool) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		DiscountAmount:  o.DiscountAmount,
		FinalAmount:     o.FinalAmount,
		CouponCode:      o.CouponCode,
		ShippingAddress: o.ShippingAddress,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		PaidAt:          o.PaidAt,
		CreatedAt:       o.CreatedAt,
	}

	if withItems {
		for _, item := range o.Items {
			resp.Items = append(resp.Items, OrderItemResponse{
				ID:             item.ID,
				ProductID:      item.ProductID,
				ProductName:    item.ProductName,
				PricePerLitre:  item.PricePerLitre,
				QuantityLitres: item.QuantityLitres,
				TotalPrice:     item.TotalPrice,
			})
		}
	}

	return resp
}
