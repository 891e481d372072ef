package shopping

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shopping"
)

// CartService handles shopping cart operations
type CartService struct {
	cartRepo    shopping.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(
	cartRepo shopping.CartRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// AddToCart puts a product in the user's cart. Adding a product that is
// already in the cart replaces the quantity instead of stacking it.
func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, req AddToCartRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if !product.IsActive {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available")
	}
	if !product.InStock(req.QuantityLitres) {
		return nil, shared.ErrInsufficientStock
	}

	item, err := shopping.NewCartItem(userID, req.ProductID, req.QuantityLitres)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Upsert(ctx, item); err != nil {
		s.logger.Error("Failed to upsert cart item", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add to cart")
	}

	s.logger.Info("Product added to cart",
		zap.String("user_id", userID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int64("quantity_litres", req.QuantityLitres))

	return s.GetCart(ctx, userID)
}

// GetCart returns the user's cart with product details and totals
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}

	products, err := s.loadProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	responses := make([]CartItemResponse, 0, len(items))
	subtotal := decimal.Zero
	var totalLitres int64

	for _, item := range items {
		resp := toCartItemResponse(item, products[item.ProductID])
		responses = append(responses, resp)
		totalLitres += item.QuantityLitres
		if resp.Available {
			subtotal = subtotal.Add(resp.LineTotal)
		}
	}

	return &CartResponse{
		Items:       responses,
		Subtotal:    subtotal,
		TotalLitres: totalLitres,
	}, nil
}

// UpdateQuantity replaces the quantity of a cart line
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, req UpdateQuantityRequest) (*CartResponse, error) {
	item, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, shared.NewDomainError("CART_ITEM_NOT_FOUND", "Product is not in the cart")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if !product.InStock(req.QuantityLitres) {
		return nil, shared.ErrInsufficientStock
	}

	if err := item.SetQuantity(req.QuantityLitres); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Update(ctx, item); err != nil {
		s.logger.Error("Failed to update cart item", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
	}

	return s.GetCart(ctx, userID)
}

// Increment adds one litre to a cart line
func (s *CartService) Increment(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	item, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, shared.NewDomainError("CART_ITEM_NOT_FOUND", "Product is not in the cart")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if !product.InStock(item.QuantityLitres + 1) {
		return nil, shared.ErrInsufficientStock
	}

	if err := item.Increment(); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Update(ctx, item); err != nil {
		s.logger.Error("Failed to update cart item", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
	}

	return s.GetCart(ctx, userID)
}

// Decrement removes one litre from a cart line. The line is removed
// entirely when it reaches zero.
func (s *CartService) Decrement(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	item, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, shared.NewDomainError("CART_ITEM_NOT_FOUND", "Product is not in the cart")
	}

	removed, err := item.Decrement()
	if err != nil {
		return nil, err
	}

	if removed {
		if err := s.cartRepo.Delete(ctx, item.ID); err != nil {
			s.logger.Error("Failed to remove cart item", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
		}
	} else {
		if err := s.cartRepo.Update(ctx, item); err != nil {
			s.logger.Error("Failed to update cart item", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
		}
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem removes a cart line
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	item, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, shared.NewDomainError("CART_ITEM_NOT_FOUND", "Product is not in the cart")
	}

	if err := s.cartRepo.Delete(ctx, item.ID); err != nil {
		s.logger.Error("Failed to remove cart item", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
	}

	return s.GetCart(ctx, userID)
}

// ClearCart empties the user's cart
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.ClearByUser(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to clear cart")
	}
	return nil
}

// CountLitres returns the total litres in the user's cart, used for the
// cart badge
func (s *CartService) CountLitres(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.cartRepo.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count cart", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to count cart")
	}
	return count, nil
}

func (s *CartService) loadProducts(ctx context.Context, items []*shopping.CartItem) (map[uuid.UUID]*catalog.Product, error) {
	if len(items) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load cart products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	return byID, nil
}
