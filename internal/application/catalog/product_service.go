package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
)

// ProductService handles catalog business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	price, err := valueobject.NewMoneyINRFromString(req.PricePerLitre)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Invalid price per litre")
	}

	product, err := catalog.NewProduct(req.Name, req.Description, price)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.Category, req.Brand); err != nil {
		return nil, err
	}

	if req.OfferPricePerLitre != nil {
		offerPrice, err := valueobject.NewMoneyINRFromString(*req.OfferPricePerLitre)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRICE", "Invalid offer price per litre")
		}
		if err := product.SetOfferPrice(offerPrice); err != nil {
			return nil, err
		}
	}

	if req.StockQuantity > 0 {
		if err := product.SetStock(req.StockQuantity); err != nil {
			return nil, err
		}
	}

	if req.FeaturedInOffers {
		if err := product.SetFeaturedInOffers(true); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))

	resp := toProductResponse(product)
	return &resp, nil
}

// Get returns a single product. Inactive products are hidden from
// non-admin callers.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if !product.IsActive && !includeInactive {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	resp := toProductResponse(product)
	return &resp, nil
}

// List returns a page of products matching the filters
func (s *ProductService) List(ctx context.Context, req ListProductsRequest) (*ProductListResponse, error) {
	filter := catalog.ProductFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Search:     req.Search,
		Category:   req.Category,
		Brand:      req.Brand,
		ActiveOnly: !req.IncludeInactive,
		OffersOnly: req.OffersOnly,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	minPrice, err := parsePriceBound(req.MinPrice)
	if err != nil {
		return nil, err
	}
	maxPrice, err := parsePriceBound(req.MaxPrice)
	if err != nil {
		return nil, err
	}
	if minPrice != nil && maxPrice != nil && minPrice.GreaterThan(*maxPrice) {
		return nil, shared.NewDomainError("INVALID_PRICE_RANGE", "Minimum price exceeds maximum price")
	}
	filter.MinPrice = minPrice
	filter.MaxPrice = maxPrice

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list products")
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, toProductResponse(product))
	}

	return &ProductListResponse{
		Products: responses,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Update updates a product's descriptive fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		return product.Update(req.Name, req.Description, req.Category, req.Brand)
	})
}

// SetPricing replaces the base price, offer price, and featured flag
func (s *ProductService) SetPricing(ctx context.Context, id uuid.UUID, req SetPricingRequest) (*ProductResponse, error) {
	price, err := valueobject.NewMoneyINRFromString(req.PricePerLitre)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Invalid price per litre")
	}

	var offerPrice *valueobject.Money
	if req.OfferPricePerLitre != nil {
		parsed, err := valueobject.NewMoneyINRFromString(*req.OfferPricePerLitre)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRICE", "Invalid offer price per litre")
		}
		offerPrice = &parsed
	}

	return s.mutate(ctx, id, func(product *catalog.Product) error {
		if err := product.SetPrice(price); err != nil {
			return err
		}
		if offerPrice != nil {
			if err := product.SetOfferPrice(*offerPrice); err != nil {
				return err
			}
		} else {
			product.ClearOfferPrice()
		}
		return product.SetFeaturedInOffers(req.FeaturedInOffers)
	})
}

// SetStock replaces the stock quantity
func (s *ProductService) SetStock(ctx context.Context, id uuid.UUID, req SetStockRequest) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		return product.SetStock(req.StockQuantity)
	})
}

// Activate makes a product visible to the storefront
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		return product.Activate()
	})
}

// Deactivate hides a product from the storefront. Existing order
// snapshots are unaffected.
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		return product.Deactivate()
	})
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete product")
	}

	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) mutate(ctx context.Context, id uuid.UUID, op func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if err := op(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}

	resp := toProductResponse(product)
	return &resp, nil
}

// parsePriceBound parses an optional price filter value. Empty means
// the bound is not set.
func parsePriceBound(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE_FILTER", "Price filter must be a non-negative number")
	}
	return &price, nil
}
