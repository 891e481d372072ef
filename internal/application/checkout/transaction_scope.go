package checkout

import (
	"context"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/order"
	"github.com/oilmart/backend/internal/domain/promotion"
	"github.com/oilmart/backend/internal/domain/shopping"
)

// TransactionScope provides transactional access to the repositories
// checkout touches. When a function is executed within a transaction
// scope, all repository operations are part of the same database
// transaction and are committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories placing
// an order needs within a single transaction: stock decrements, coupon
// usage, order creation and cart clearing must all commit together.
type TransactionalRepositories interface {
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// Orders returns the order repository scoped to the current transaction
	Orders() order.Repository
	// Coupons returns the coupon repository scoped to the current transaction
	Coupons() promotion.CouponRepository
	// Cart returns the cart repository scoped to the current transaction
	Cart() shopping.CartRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support
// is not required.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	orderRepo   order.Repository
	couponRepo  promotion.CouponRepository
	cartRepo    shopping.CartRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	orderRepo order.Repository,
	couponRepo promotion.CouponRepository,
	cartRepo shopping.CartRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		couponRepo:  couponRepo,
		cartRepo:    cartRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.productRepo
}

// Orders returns the order repository.
func (s *NoOpTransactionScope) Orders() order.Repository {
	return s.orderRepo
}

// Coupons returns the coupon repository.
func (s *NoOpTransactionScope) Coupons() promotion.CouponRepository {
	return s.couponRepo
}

// Cart returns the cart repository.
func (s *NoOpTransactionScope) Cart() shopping.CartRepository {
	return s.cartRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
