package shopping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/shopping"
)

// AddToCartRequest contains data for adding a product to the cart
type AddToCartRequest struct {
	ProductID      uuid.UUID `json:"product_id" binding:"required"`
	QuantityLitres int64     `json:"quantity_litres" binding:"required,min=1"`
}

// UpdateQuantityRequest contains data for changing a cart line quantity
type UpdateQuantityRequest struct {
	QuantityLitres int64 `json:"quantity_litres" binding:"required,min=1"`
}

// CartItemResponse is one cart line enriched with product data
type CartItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ImageURL       string          `json:"image_url,omitempty"`
	PricePerLitre  decimal.Decimal `json:"price_per_litre"`
	QuantityLitres int64           `json:"quantity_litres"`
	LineTotal      decimal.Decimal `json:"line_total"`
	InStock        bool            `json:"in_stock"`
	Available      bool            `json:"available"`
}

// CartResponse is the full cart with totals
type CartResponse struct {
	Items       []CartItemResponse `json:"items"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	TotalLitres int64              `json:"total_litres"`
}

// WishlistItemResponse is one wishlist entry enriched with product data
type WishlistItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ImageURL      string          `json:"image_url,omitempty"`
	PricePerLitre decimal.Decimal `json:"price_per_litre"`
	InStock       bool            `json:"in_stock"`
	Available     bool            `json:"available"`
	AddedAt       time.Time       `json:"added_at"`
}

// WishlistResponse is the full wishlist
type WishlistResponse struct {
	Items []WishlistItemResponse `json:"items"`
}

// ToggleWishlistResponse reports the outcome of a wishlist toggle
type ToggleWishlistResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Added     bool      `json:"added"`
}

func toCartItemResponse(item *shopping.CartItem, product *catalog.Product) CartItemResponse {
	resp := CartItemResponse{
		ID:             item.ID,
		ProductID:      item.ProductID,
		QuantityLitres: item.QuantityLitres,
		LineTotal:      decimal.Zero,
	}
	if product != nil {
		price := product.EffectivePrice().Amount()
		resp.ProductName = product.Name
		resp.ImageURL = product.ImageURL
		resp.PricePerLitre = price
		resp.LineTotal = price.Mul(decimal.NewFromInt(item.QuantityLitres))
		resp.InStock = product.InStock(item.QuantityLitres)
		resp.Available = product.IsActive
	}
	return resp
}

func toWishlistItemResponse(item *shopping.WishlistItem, product *catalog.Product) WishlistItemResponse {
	resp := WishlistItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		AddedAt:   item.CreatedAt,
	}
	if product != nil {
		resp.ProductName = product.Name
		resp.ImageURL = product.ImageURL
		resp.PricePerLitre = product.EffectivePrice().Amount()
		resp.InStock = product.InStock(1)
		resp.Available = product.IsActive
	}
	return resp
}
