package catalog

import (
	"strings"
	"time"

	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product represents an engine oil product in the catalog
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	Name               string           `gorm:"type:varchar(200);not null"`
	Description        string           `gorm:"type:text"`
	Category           string           `gorm:"type:varchar(100);index"`
	Brand              string           `gorm:"type:varchar(100);index"`
	ImageURL           string           `gorm:"type:varchar(500)"`
	PricePerLitre      decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	OfferPricePerLitre *decimal.Decimal `gorm:"type:decimal(18,2)"`
	StockQuantity      int64            `gorm:"not null;default:0"`
	IsActive           bool             `gorm:"not null;default:true;index"`
	FeaturedInOffers   bool             `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(name, description string, pricePerLitre valueobject.Money) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if pricePerLitre.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per litre cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		PricePerLitre:     pricePerLitre.Amount(),
		IsActive:          true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, category, brand string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if len(category) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}
	if len(brand) > 100 {
		return shared.NewDomainError("INVALID_BRAND", "Brand cannot exceed 100 characters")
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.Category = category
	p.Brand = brand
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetImageURL sets the product image URL
func (p *Product) SetImageURL(url string) error {
	if url != "" && len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	p.ImageURL = url
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrice updates the base price per litre
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price per litre cannot be negative")
	}

	oldPrice := p.PricePerLitre
	p.PricePerLitre = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetOfferPrice sets a discounted offer price per litre
// The offer price must be lower than the base price
func (p *Product) SetOfferPrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Offer price cannot be negative")
	}
	if price.Amount().GreaterThanOrEqual(p.PricePerLitre) {
		return shared.NewDomainError("INVALID_OFFER_PRICE", "Offer price must be lower than the base price")
	}

	amount := price.Amount()
	p.OfferPricePerLitre = &amount
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, p.PricePerLitre))

	return nil
}

// ClearOfferPrice removes the offer price
func (p *Product) ClearOfferPrice() {
	p.OfferPricePerLitre = nil
	p.FeaturedInOffers = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetFeaturedInOffers marks the product for the offers section
// Only products with an offer price can be featured
func (p *Product) SetFeaturedInOffers(featured bool) error {
	if featured && p.OfferPricePerLitre == nil {
		return shared.NewDomainError("NO_OFFER_PRICE", "Product has no offer price to feature")
	}

	p.FeaturedInOffers = featured
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// EffectivePrice returns the price a buyer pays per litre,
// the offer price when one is set, otherwise the base price
func (p *Product) EffectivePrice() valueobject.Money {
	if p.OfferPricePerLitre != nil {
		return valueobject.NewMoneyINR(*p.OfferPricePerLitre)
	}
	return valueobject.NewMoneyINR(p.PricePerLitre)
}

// HasOffer returns true if an offer price is set
func (p *Product) HasOffer() bool {
	return p.OfferPricePerLitre != nil
}

// SetStock replaces the stock quantity
func (p *Product) SetStock(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	p.StockQuantity = quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// DecreaseStock removes litres from stock, used when an order is placed
func (p *Product) DecreaseStock(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.StockQuantity < quantity {
		return shared.ErrInsufficientStock
	}

	p.StockQuantity -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, -quantity))

	return nil
}

// IncreaseStock returns litres to stock, used on restock or order expiry
func (p *Product) IncreaseStock(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	p.StockQuantity += quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, quantity))

	return nil
}

// InStock returns true if at least the requested quantity is available
func (p *Product) InStock(quantity int64) bool {
	return p.StockQuantity >= quantity
}

// Activate makes the product visible to the storefront
func (p *Product) Activate() error {
	if p.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Purchasable returns true if the product can be added to a cart
func (p *Product) Purchasable(quantity int64) bool {
	return p.IsActive && p.InStock(quantity)
}

// validateProductName validates the product name
func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
