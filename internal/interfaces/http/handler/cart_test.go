package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	shoppingapp "github.com/oilmart/backend/internal/application/shopping"
	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
	"github.com/oilmart/backend/internal/domain/shopping"
	"github.com/oilmart/backend/internal/interfaces/http/dto"
	"github.com/oilmart/backend/tests/testutil"
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

func newCartHandlerFixture(t *testing.T) (*CartHandler, *MockCartRepository, *MockProductRepository) {
	t.Helper()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	service := shoppingapp.NewCartService(cartRepo, productRepo, zap.NewNop())
	return NewCartHandler(service), cartRepo, productRepo
}

func newCartTestProduct(t *testing.T, price string, stock int64) *catalog.Product {
	t.Helper()
	money, err := valueobject.NewMoneyINRFromString(price)
	require.NoError(t, err)
	product, err := catalog.NewProduct("Groundnut Oil 1L", "", money)
	require.NoError(t, err)
	require.NoError(t, product.SetStock(stock))
	product.ClearDomainEvents()
	return product
}

func TestCartHandler_Get(t *testing.T) {
	handler, cartRepo, productRepo := newCartHandlerFixture(t)
	userID := testutil.TestUserID()
	product := newCartTestProduct(t, "180.00", 50)
	item, err := shopping.NewCartItem(userID, product.ID, 3)
	require.NoError(t, err)

	cartRepo.On("FindByUser", mock.Anything, userID).Return([]*shopping.CartItem{item}, nil)
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]*catalog.Product{product}, nil)

	testutil.RunHTTPTestCases(t, handler.Get, []testutil.HTTPTestCase{
		{
			Name:           "anonymous request is rejected",
			Path:           "/cart",
			ExpectedStatus: http.StatusUnauthorized,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.CodeUnauthorized)
			},
		},
		{
			Name:           "returns the caller's cart",
			Path:           "/cart",
			ExpectedStatus: http.StatusOK,
			Setup: func(t *testing.T, tc *testutil.TestContext) {
				tc.AuthenticateAs(userID)
			},
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertSuccessResponse(t, tc)
				body := testutil.JSONResponse(t, tc)
				data := body["data"].(map[string]interface{})
				items := data["items"].([]interface{})
				assert.Len(t, items, 1)
			},
		},
	})
}

func TestCartHandler_AddItem(t *testing.T) {
	handler, cartRepo, productRepo := newCartHandlerFixture(t)
	userID := testutil.TestUserID()
	product := newCartTestProduct(t, "180.00", 2)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	item, err := shopping.NewCartItem(userID, product.ID, 2)
	require.NoError(t, err)
	cartRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	cartRepo.On("FindByUser", mock.Anything, userID).Return([]*shopping.CartItem{item}, nil)
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]*catalog.Product{product}, nil)

	authenticate := func(t *testing.T, tc *testutil.TestContext) {
		tc.AuthenticateAs(userID)
	}

	testutil.RunHTTPTestCases(t, handler.AddItem, []testutil.HTTPTestCase{
		{
			Name:           "malformed body is a bad request",
			Method:         http.MethodPost,
			Path:           "/cart/items",
			Body:           map[string]string{"product_id": "not-a-uuid"},
			ExpectedStatus: http.StatusBadRequest,
			Setup:          authenticate,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.CodeBadRequest)
			},
		},
		{
			Name:   "quantity above stock is unprocessable",
			Method: http.MethodPost,
			Path:   "/cart/items",
			Body: shoppingapp.AddToCartRequest{
				ProductID:      product.ID,
				QuantityLitres: 5,
			},
			ExpectedStatus: http.StatusUnprocessableEntity,
			Setup:          authenticate,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, "INSUFFICIENT_STOCK")
			},
		},
		{
			Name:   "adds the product",
			Method: http.MethodPost,
			Path:   "/cart/items",
			Body: shoppingapp.AddToCartRequest{
				ProductID:      product.ID,
				QuantityLitres: 2,
			},
			ExpectedStatus: http.StatusOK,
			Setup:          authenticate,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertSuccessResponse(t, tc)
			},
		},
	})
}
