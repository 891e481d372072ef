package shopping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shopping"
)

// MockWishlistRepository is a mock implementation of shopping.WishlistRepository
type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) Create(ctx context.Context, item *shopping.WishlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockWishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWishlistRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*shopping.WishlistItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopping.WishlistItem), args.Error(1)
}

func (m *MockWishlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.WishlistItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*shopping.WishlistItem), args.Error(1)
}

func TestWishlistService_Toggle_Adds(t *testing.T) {
	wishlistRepo := new(MockWishlistRepository)
	productRepo := new(MockProductRepository)
	svc := NewWishlistService(wishlistRepo, productRepo, zap.NewNop())

	userID := uuid.New()
	product := newTestProduct(t, "500.00", 10)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	wishlistRepo.On("FindByUserAndProduct", mock.Anything, userID, product.ID).Return(nil, shared.ErrNotFound)
	wishlistRepo.On("Create", mock.Anything, mock.AnythingOfType("*shopping.WishlistItem")).Return(nil)

	resp, err := svc.Toggle(context.Background(), userID, product.ID)
	require.NoError(t, err)
	assert.True(t, resp.Added)
	wishlistRepo.AssertExpectations(t)
}

func TestWishlistService_Toggle_Removes(t *testing.T) {
	wishlistRepo := new(MockWishlistRepository)
	productRepo := new(MockProductRepository)
	svc := NewWishlistService(wishlistRepo, productRepo, zap.NewNop())

	userID := uuid.New()
	product := newTestProduct(t, "500.00", 10)
	existing, err := shopping.NewWishlistItem(userID, product.ID)
	require.NoError(t, err)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	wishlistRepo.On("FindByUserAndProduct", mock.Anything, userID, product.ID).Return(existing, nil)
	wishlistRepo.On("Delete", mock.Anything, existing.ID).Return(nil)

	resp, err := svc.Toggle(context.Background(), userID, product.ID)
	require.NoError(t, err)
	assert.False(t, resp.Added)
	wishlistRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWishlistService_GetWishlist(t *testing.T) {
	wishlistRepo := new(MockWishlistRepository)
	productRepo := new(MockProductRepository)
	svc := NewWishlistService(wishlistRepo, productRepo, zap.NewNop())

	userID := uuid.New()
	product := newTestProduct(t, "450.00", 10)
	item, err := shopping.NewWishlistItem(userID, product.ID)
	require.NoError(t, err)

	wishlistRepo.On("FindByUser", mock.Anything, userID).Return([]*shopping.WishlistItem{item}, nil)
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]*catalog.Product{product}, nil)

	resp, err := svc.GetWishlist(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, product.Name, resp.Items[0].ProductName)
	assert.True(t, resp.Items[0].Available)
}

func TestWishlistService_Remove_NotFound(t *testing.T) {
	wishlistRepo := new(MockWishlistRepository)
	productRepo := new(MockProductRepository)
	svc := NewWishlistService(wishlistRepo, productRepo, zap.NewNop())

	userID := uuid.New()
	productID := uuid.New()
	wishlistRepo.On("FindByUserAndProduct", mock.Anything, userID, productID).Return(nil, shared.ErrNotFound)

	err := svc.Remove(context.Background(), userID, productID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "WISHLIST_ITEM_NOT_FOUND", domainErr.Code)
}
