package catalog

import (
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Product
const AggregateTypeProduct = "Product"

// Product domain event types
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeProductUpdated      = "ProductUpdated"
	EventTypeProductPriceChanged = "ProductPriceChanged"
	EventTypeProductStockChanged = "ProductStockChanged"
)

// ProductCreatedEvent is published when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name          string          `json:"name"`
	PricePerLitre decimal.Decimal `json:"price_per_litre"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		Name:            product.Name,
		PricePerLitre:   product.PricePerLitre,
	}
}

// ProductUpdatedEvent is published when product information changes
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		Name:            product.Name,
	}
}

// ProductPriceChangedEvent is published when the price or offer price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	Name          string           `json:"name"`
	OldPrice      decimal.Decimal  `json:"old_price"`
	PricePerLitre decimal.Decimal  `json:"price_per_litre"`
	OfferPrice    *decimal.Decimal `json:"offer_price_per_litre,omitempty"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldPrice decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, product.ID),
		Name:            product.Name,
		OldPrice:        oldPrice,
		PricePerLitre:   product.PricePerLitre,
		OfferPrice:      product.OfferPricePerLitre,
	}
}

// ProductStockChangedEvent is published when stock is increased or decreased
type ProductStockChangedEvent struct {
	shared.BaseDomainEvent
	Name      string `json:"name"`
	Delta     int64  `json:"delta"`
	Remaining int64  `json:"remaining"`
}

// NewProductStockChangedEvent creates a new ProductStockChangedEvent
func NewProductStockChangedEvent(product *Product, delta int64) *ProductStockChangedEvent {
	return &ProductStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockChanged, AggregateTypeProduct, product.ID),
		Name:            product.Name,
		Delta:           delta,
		Remaining:       product.StockQuantity,
	}
}
