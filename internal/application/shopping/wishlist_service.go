package shopping

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shopping"
)

// WishlistService handles wishlist operations
type WishlistService struct {
	wishlistRepo shopping.WishlistRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewWishlistService creates a new WishlistService
func NewWishlistService(
	wishlistRepo shopping.WishlistRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// Toggle adds the product to the wishlist, or removes it if already there
func (s *WishlistService) Toggle(ctx context.Context, userID, productID uuid.UUID) (*ToggleWishlistResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	existing, err := s.wishlistRepo.FindByUserAndProduct(ctx, userID, productID)
	if err == nil && existing != nil {
		if err := s.wishlistRepo.Delete(ctx, existing.ID); err != nil {
			s.logger.Error("Failed to remove wishlist item", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update wishlist")
		}
		return &ToggleWishlistResponse{ProductID: productID, Added: false}, nil
	}

	item, err := shopping.NewWishlistItem(userID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.wishlistRepo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to add wishlist item", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update wishlist")
	}

	return &ToggleWishlistResponse{ProductID: productID, Added: true}, nil
}

// GetWishlist returns the user's wishlist with product details
func (s *WishlistService) GetWishlist(ctx context.Context, userID uuid.UUID) (*WishlistResponse, error) {
	items, err := s.wishlistRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load wishlist", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load wishlist")
	}

	responses := make([]WishlistItemResponse, 0, len(items))
	if len(items) == 0 {
		return &WishlistResponse{Items: responses}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load wishlist products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load wishlist")
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	for _, item := range items {
		responses = append(responses, toWishlistItemResponse(item, byID[item.ProductID]))
	}

	return &WishlistResponse{Items: responses}, nil
}

// Remove deletes a wishlist entry without toggling
func (s *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	existing, err := s.wishlistRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil || existing == nil {
		return shared.NewDomainError("WISHLIST_ITEM_NOT_FOUND", "Product is not in the wishlist")
	}

	if err := s.wishlistRepo.Delete(ctx, existing.ID); err != nil {
		s.logger.Error("Failed to remove wishlist item", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update wishlist")
	}

	return nil
}
