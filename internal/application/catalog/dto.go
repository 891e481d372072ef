package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oilmart/backend/internal/domain/catalog"
)

// CreateProductRequest contains data for creating a product
type CreateProductRequest struct {
	Name               string  `json:"name" binding:"required,max=200"`
	Description        string  `json:"description"`
	Category           string  `json:"category" binding:"max=100"`
	Brand              string  `json:"brand" binding:"max=100"`
	PricePerLitre      string  `json:"price_per_litre" binding:"required"`
	OfferPricePerLitre *string `json:"offer_price_per_litre"`
	StockQuantity      int64   `json:"stock_quantity" binding:"min=0"`
	FeaturedInOffers   bool    `json:"featured_in_offers"`
}

// UpdateProductRequest contains data for updating a product
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=100"`
	Brand       string `json:"brand" binding:"max=100"`
}

// SetPricingRequest contains data for repricing a product
type SetPricingRequest struct {
	PricePerLitre      string  `json:"price_per_litre" binding:"required"`
	OfferPricePerLitre *string `json:"offer_price_per_litre"`
	FeaturedInOffers   bool    `json:"featured_in_offers"`
}

// SetStockRequest contains data for restocking a product
type SetStockRequest struct {
	StockQuantity int64 `json:"stock_quantity" binding:"min=0"`
}

// ListProductsRequest contains catalog listing filters
type ListProductsRequest struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	Search     string `form:"search"`
	Category   string `form:"category"`
	Brand      string `form:"brand"`
	OffersOnly bool   `form:"offers_only"`
	MinPrice   string `form:"min_price"`
	MaxPrice   string `form:"max_price"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir"`
	// IncludeInactive is only honored for admin callers
	IncludeInactive bool `form:"include_inactive"`
}

// ProductResponse is the product representation returned to clients
type ProductResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	Category           string           `json:"category,omitempty"`
	Brand              string           `json:"brand,omitempty"`
	ImageURL           string           `json:"image_url,omitempty"`
	PricePerLitre      decimal.Decimal  `json:"price_per_litre"`
	OfferPricePerLitre *decimal.Decimal `json:"offer_price_per_litre,omitempty"`
	EffectivePrice     decimal.Decimal  `json:"effective_price"`
	StockQuantity      int64            `json:"stock_quantity"`
	InStock            bool             `json:"in_stock"`
	IsActive           bool             `json:"is_active"`
	FeaturedInOffers   bool             `json:"featured_in_offers"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// ProductListResponse contains a page of products
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// SubmitReviewRequest contains data for creating or replacing a review
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewResponse is the review representation returned to clients
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductReviewsResponse bundles the reviews with the aggregate rating
type ProductReviewsResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
	ReviewCount   int64            `json:"review_count"`
}

// UploadImageRequest contains data for requesting an image upload URL
type UploadImageRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	SizeBytes   int64  `json:"size_bytes" binding:"required,min=1"`
}

// UploadImageResponse contains the presigned upload target
type UploadImageResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	PublicURL  string    `json:"public_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func toProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                 product.ID,
		Name:               product.Name,
		Description:        product.Description,
		Category:           product.Category,
		Brand:              product.Brand,
		ImageURL:           product.ImageURL,
		PricePerLitre:      product.PricePerLitre,
		OfferPricePerLitre: product.OfferPricePerLitre,
		EffectivePrice:     product.EffectivePrice().Amount(),
		StockQuantity:      product.StockQuantity,
		InStock:            product.InStock(1),
		IsActive:           product.IsActive,
		FeaturedInOffers:   product.FeaturedInOffers,
		CreatedAt:          product.CreatedAt,
		UpdatedAt:          product.UpdatedAt,
	}
}

func toReviewResponse(review *catalog.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
