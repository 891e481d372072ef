package shopping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
	"github.com/oilmart/backend/internal/domain/shopping"
)

// MockCartRepository is a mock implementation of shopping.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Upsert(ctx context.Context, item *shopping.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) Update(ctx context.Context, item *shopping.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*shopping.CartItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopping.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*shopping.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopping.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*shopping.CartItem), args.Error(1)
}

func (m *MockCartRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestProduct(t *testing.T, price string, stock int64) *catalog.Product {
	t.Helper()
	money, err := valueobject.NewMoneyINRFromString(price)
	require.NoError(t, err)
	product, err := catalog.NewProduct("Synth 5W-30", "", money)
	require.NoError(t, err)
	require.NoError(t, product.SetStock(stock))
	product.ClearDomainEvents()
	return product
}

func TestCartService_AddToCart(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	userID := uuid.New()
	product := newTestProduct(t, "500.00", 100)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	cartRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(item *shopping.CartItem) bool {
		return item.UserID == userID && item.ProductID == product.ID && item.QuantityLitres == 5
	})).Return(nil)

	item, err := shopping.NewCartItem(userID, product.ID, 5)
	require.NoError(t, err)
	cartRepo.On("FindByUser", mock.Anything, userID).Return([]*shopping.CartItem{item}, nil)
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]*catalog.Product{product}, nil)

	resp, err := svc.AddToCart(context.Background(), userID, AddToCartRequest{
		ProductID:      product.ID,
		QuantityLitres: 5,
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(5), resp.Items[0].QuantityLitres)
	assert.True(t, resp.Items[0].LineTotal.Equal(decimal.RequireFromString("2500.00")))
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("2500.00")))
	assert.Equal(t, int64(5), resp.TotalLitres)
	cartRepo.AssertExpectations(t)
}

func TestCartService_AddToCart_InsufficientStock(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	product := newTestProduct(t, "500.00", 3)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	_, err := svc.AddToCart(context.Background(), uuid.New(), AddToCartRequest{
		ProductID:      product.ID,
		QuantityLitres: 10,
	})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	cartRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCartService_AddToCart_InactiveProduct(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	product := newTestProduct(t, "500.00", 100)
	require.NoError(t, product.Deactivate())
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	_, err := svc.AddToCart(context.Background(), uuid.New(), AddToCartRequest{
		ProductID:      product.ID,
		QuantityLitres: 1,
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_UNAVAILABLE", domainErr.Code)
}

func TestCartService_Decrement_RemovesLineAtZero(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	userID := uuid.New()
	productID := uuid.New()
	item, err := shopping.NewCartItem(userID, productID, 1)
	require.NoError(t, err)

	cartRepo.On("FindByUserAndProduct", mock.Anything, userID, productID).Return(item, nil)
	cartRepo.On("Delete", mock.Anything, item.ID).Return(nil)
	cartRepo.On("FindByUser", mock.Anything, userID).Return([]*shopping.CartItem{}, nil)

	resp, err := svc.Decrement(context.Background(), userID, productID)
	require.NoError(t, err)

	assert.Empty(t, resp.Items)
	cartRepo.AssertCalled(t, "Delete", mock.Anything, item.ID)
	cartRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCartService_Increment_ChecksStock(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	userID := uuid.New()
	product := newTestProduct(t, "500.00", 5)
	item, err := shopping.NewCartItem(userID, product.ID, 5)
	require.NoError(t, err)

	cartRepo.On("FindByUserAndProduct", mock.Anything, userID, product.ID).Return(item, nil)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	_, err = svc.Increment(context.Background(), userID, product.ID)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, int64(5), item.QuantityLitres)
}

func TestCartService_GetCart_SkipsUnavailableInSubtotal(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	userID := uuid.New()
	active := newTestProduct(t, "100.00", 50)
	inactive := newTestProduct(t, "200.00", 50)
	require.NoError(t, inactive.Deactivate())

	a, err := shopping.NewCartItem(userID, active.ID, 2)
	require.NoError(t, err)
	b, err := shopping.NewCartItem(userID, inactive.ID, 3)
	require.NoError(t, err)

	cartRepo.On("FindByUser", mock.Anything, userID).Return([]*shopping.CartItem{a, b}, nil)
	productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]*catalog.Product{active, inactive}, nil)

	resp, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	// Only the available line counts toward the subtotal
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("200.00")))
	assert.Equal(t, int64(5), resp.TotalLitres)
}

func TestCartService_CountLitres(t *testing.T) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	userID := uuid.New()
	cartRepo.On("CountByUser", mock.Anything, userID).Return(int64(12), nil)

	count, err := svc.CountLitres(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}
