package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/order"
	"github.com/oilmart/backend/internal/domain/payment"
	"github.com/oilmart/backend/internal/domain/promotion"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
	"github.com/oilmart/backend/internal/domain/shopping"
)

// CouponResolver looks up a coupon by code for the read-only quote
// path. The promotion service implements it with a cache in front of
// the repository; placement always reads coupons inside its own
// transaction instead.
type CouponResolver interface {
	Resolve(ctx context.Context, code string) (*promotion.Coupon, error)
}

// CheckoutService turns a cart into a paid order. All money amounts are
// computed server-side from current product prices; client-supplied
// totals are never trusted.
type CheckoutService struct {
	scope       TransactionScope
	cartRepo    shopping.CartRepository
	productRepo catalog.ProductRepository
	coupons     CouponResolver
	orderRepo   order.Repository
	gateway     payment.Gateway
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	scope TransactionScope,
	cartRepo shopping.CartRepository,
	productRepo catalog.ProductRepository,
	coupons CouponResolver,
	orderRepo order.Repository,
	gateway payment.Gateway,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		scope:       scope,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		coupons:     coupons,
		orderRepo:   orderRepo,
		gateway:     gateway,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Quote prices the user's cart without placing an order. Unavailable
// lines are reported but excluded from the subtotal; an inapplicable
// coupon is reported with a reason instead of failing the quote.
func (s *CheckoutService) Quote(ctx context.Context, userID uuid.UUID, req QuoteRequest) (*QuoteResponse, error) {
	lines, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("CART_EMPTY", "Cart is empty")
	}

	products, err := s.loadProducts(ctx, s.productRepo, lines)
	if err != nil {
		return nil, err
	}

	resp := &QuoteResponse{}
	subtotal := valueobject.ZeroINR()
	for _, line := range lines {
		product, ok := products[line.ProductID]
		available := ok && product.Purchasable(line.QuantityLitres)

		item := QuoteItem{
			ProductID:      line.ProductID,
			QuantityLitres: line.QuantityLitres,
			Available:      available,
		}
		if ok {
			price := product.EffectivePrice()
			item.ProductName = product.Name
			item.PricePerLitre = price.Amount()
			item.LineTotal = price.MultiplyByInt(line.QuantityLitres).Amount()
		}
		if available {
			subtotal = subtotal.MustAdd(valueobject.NewMoneyINR(item.LineTotal))
		}
		resp.Items = append(resp.Items, item)
	}
	resp.Subtotal = subtotal.Amount()

	discount := valueobject.ZeroINR()
	if req.CouponCode != "" {
		code := promotion.NormalizeCode(req.CouponCode)
		resp.CouponCode = code

		coupon, err := s.coupons.Resolve(ctx, code)
		if err != nil {
			resp.CouponReason = "Coupon not found"
		} else if d, err := coupon.DiscountFor(subtotal, time.Now()); err != nil {
			resp.CouponReason = couponFailureReason(err)
		} else {
			discount = d
			resp.CouponApplied = true
		}
	}
	resp.DiscountAmount = discount.Amount()
	resp.FinalAmount = subtotal.MustSubtract(discount).Amount()

	return resp, nil
}

// PlaceOrder converts the cart into a pending order: stock is
// decremented, coupon usage recorded, item prices snapshotted and the
// cart cleared, all in one transaction. A payment session is opened
// after commit; if the gateway refuses, the order is cancelled and
// stock restored.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	var placed *order.Order

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lines, err := repos.Cart().FindByUser(ctx, userID)
		if err != nil {
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
		}
		if len(lines) == 0 {
			return shared.NewDomainError("CART_EMPTY", "Cart is empty")
		}

		products, err := s.loadProductsLocked(ctx, repos.Products(), lines)
		if err != nil {
			return err
		}

		items := make([]*order.OrderItem, 0, len(lines))
		subtotal := valueobject.ZeroINR()
		for _, line := range lines {
			product, ok := products[line.ProductID]
			if !ok || !product.IsActive {
				return shared.NewDomainError("PRODUCT_UNAVAILABLE", "A product in the cart is no longer available")
			}
			if !product.InStock(line.QuantityLitres) {
				return shared.ErrInsufficientStock
			}

			price := product.EffectivePrice()
			item, err := order.NewOrderItem(product.ID, product.Name, price, line.QuantityLitres)
			if err != nil {
				return err
			}
			items = append(items, item)
			subtotal = subtotal.MustAdd(price.MultiplyByInt(line.QuantityLitres))

			if err := product.DecreaseStock(line.QuantityLitres); err != nil {
				return err
			}
			if err := repos.Products().Update(ctx, product); err != nil {
				return shared.NewDomainError("INTERNAL_ERROR", "Failed to reserve stock")
			}
		}

		discount := valueobject.ZeroINR()
		var couponCode *string
		if req.CouponCode != "" {
			code := promotion.NormalizeCode(req.CouponCode)
			coupon, err := repos.Coupons().FindByCode(ctx, code)
			if err != nil {
				return shared.NewDomainError("COUPON_NOT_FOUND", "Coupon not found")
			}
			discount, err = coupon.DiscountFor(subtotal, time.Now())
			if err != nil {
				return err
			}
			if err := repos.Coupons().IncrementUsage(ctx, coupon.ID); err != nil {
				return shared.NewDomainError("INTERNAL_ERROR", "Failed to record coupon usage")
			}
			couponCode = &code
		}

		orderNumber, err := order.GenerateOrderNumber()
		if err != nil {
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to generate order number")
		}

		placed, err = order.NewOrder(userID, orderNumber, req.ShippingAddress, items, couponCode, discount)
		if err != nil {
			return err
		}
		if err := repos.Orders().Create(ctx, placed); err != nil {
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to create order")
		}

		if err := repos.Cart().ClearByUser(ctx, userID); err != nil {
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to clear cart")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_number", placed.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.String("final_amount", placed.FinalAmount.String()))

	session, err := s.openPaymentSession(ctx, placed)
	if err != nil {
		s.compensateFailedSession(ctx, placed.ID)
		return nil, err
	}

	s.publishEvents(ctx, placed)

	resp := s.toPlaceOrderResponse(placed, session)
	return resp, nil
}

// VerifyPayment checks the gateway signature for a completed payment
// and marks the order paid. A failed check records a failed attempt and
// leaves the order payable.
func (s *CheckoutService) VerifyPayment(ctx context.Context, userID uuid.UUID, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	ord, err := s.orderRepo.FindByPaymentSession(ctx, req.SessionID)
	if err != nil {
		return nil, payment.ErrSessionNotFound
	}
	if !ord.BelongsTo(userID) {
		return nil, shared.ErrForbidden
	}
	if !ord.IsAwaitingPayment() {
		return nil, shared.NewDomainError("ORDER_NOT_PAYABLE", "Order is not awaiting payment")
	}

	if err := s.gateway.VerifyPayment(payment.Verification{
		SessionID: req.SessionID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	}); err != nil {
		s.logger.Warn("Payment verification failed",
			zap.String("order_number", ord.OrderNumber),
			zap.Error(err))

		if failErr := ord.MarkPaymentFailed(); failErr == nil {
			if updateErr := s.orderRepo.Update(ctx, ord); updateErr != nil {
				s.logger.Error("Failed to record payment failure", zap.Error(updateErr))
			}
		}
		return nil, err
	}

	if err := ord.MarkPaid(req.PaymentID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, ord); err != nil {
		s.logger.Error("Failed to mark order paid", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
	}

	s.logger.Info("Payment captured",
		zap.String("order_number", ord.OrderNumber),
		zap.String("payment_id", req.PaymentID))

	s.publishEvents(ctx, ord)

	return &VerifyPaymentResponse{
		OrderID:       ord.ID,
		OrderNumber:   ord.OrderNumber,
		Status:        string(ord.Status),
		PaymentStatus: string(ord.PaymentStatus),
		PaidAt:        ord.PaidAt,
	}, nil
}

// CapturePayment records a capture reported by the gateway's webhook.
// The webhook signature is verified at the transport layer before this
// is called, so no per-user check applies. Gateway retries of an
// already captured payment are acknowledged without another capture.
func (s *CheckoutService) CapturePayment(ctx context.Context, sessionID, paymentID string) (*VerifyPaymentResponse, error) {
	ord, err := s.orderRepo.FindByPaymentSession(ctx, sessionID)
	if err != nil {
		return nil, payment.ErrSessionNotFound
	}

	if !ord.IsPaid() {
		if !ord.IsAwaitingPayment() {
			return nil, shared.NewDomainError("ORDER_NOT_PAYABLE", "Order is not awaiting payment")
		}
		if err := ord.MarkPaid(paymentID); err != nil {
			return nil, err
		}
		if err := s.orderRepo.Update(ctx, ord); err != nil {
			s.logger.Error("Failed to mark order paid", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
		}

		s.logger.Info("Payment captured via webhook",
			zap.String("order_number", ord.OrderNumber),
			zap.String("payment_id", paymentID))

		s.publishEvents(ctx, ord)
	}

	return &VerifyPaymentResponse{
		OrderID:       ord.ID,
		OrderNumber:   ord.OrderNumber,
		Status:        string(ord.Status),
		PaymentStatus: string(ord.PaymentStatus),
		PaidAt:        ord.PaidAt,
	}, nil
}

func (s *CheckoutService) openPaymentSession(ctx context.Context, ord *order.Order) (*payment.Session, error) {
	session, err := s.gateway.CreateSession(ctx, payment.CreateSessionRequest{
		OrderNumber: ord.OrderNumber,
		Amount:      valueobject.NewMoneyINR(ord.FinalAmount),
		CustomerID:  ord.UserID.String(),
		Notes: map[string]string{
			"order_id": ord.ID.String(),
		},
	})
	if err != nil {
		s.logger.Error("Failed to open payment session",
			zap.String("order_number", ord.OrderNumber),
			zap.Error(err))
		return nil, payment.ErrGatewayUnavailable
	}

	if err := ord.AttachPaymentSession(session.SessionID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, ord); err != nil {
		s.logger.Error("Failed to attach payment session", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
	}

	return session, nil
}

// compensateFailedSession unwinds an order whose payment session could
// not be opened: stock goes back and the order is cancelled.
func (s *CheckoutService) compensateFailedSession(ctx context.Context, orderID uuid.UUID) {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ord, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		for _, item := range ord.Items {
			product, err := repos.Products().FindByID(ctx, item.ProductID)
			if err != nil {
				continue
			}
			if err := product.IncreaseStock(item.QuantityLitres); err != nil {
				return err
			}
			if err := repos.Products().Update(ctx, product); err != nil {
				return err
			}
		}

		if err := ord.Cancel(); err != nil {
			return err
		}
		return repos.Orders().Update(ctx, ord)
	})
	if err != nil {
		s.logger.Error("Failed to compensate order after gateway failure",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
	}
}

func (s *CheckoutService) loadProducts(ctx context.Context, repo catalog.ProductRepository, lines []*shopping.CartItem) (map[uuid.UUID]*catalog.Product, error) {
	products, err := repo.FindByIDs(ctx, cartProductIDs(lines))
	if err != nil {
		s.logger.Error("Failed to load products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load products")
	}
	return indexProducts(products), nil
}

// loadProductsLocked loads the cart's products under FOR UPDATE row
// locks. Placement must use this variant: without the locks two
// concurrent checkouts can both pass the stock check against the same
// stale quantity and oversell.
func (s *CheckoutService) loadProductsLocked(ctx context.Context, repo catalog.ProductRepository, lines []*shopping.CartItem) (map[uuid.UUID]*catalog.Product, error) {
	products, err := repo.FindByIDsForUpdate(ctx, cartProductIDs(lines))
	if err != nil {
		s.logger.Error("Failed to load products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load products")
	}
	return indexProducts(products), nil
}

func cartProductIDs(lines []*shopping.CartItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

func indexProducts(products []*catalog.Product) map[uuid.UUID]*catalog.Product {
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	return byID
}

func (s *CheckoutService) publishEvents(ctx context.Context, ord *order.Order) {
	events := ord.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events",
			zap.String("order_number", ord.OrderNumber),
			zap.Error(err))
	}
	ord.ClearDomainEvents()
}

func (s *CheckoutService) toPlaceOrderResponse(ord *order.Order, session *payment.Session) *PlaceOrderResponse {
	final := valueobject.NewMoneyINR(ord.FinalAmount)
	return &PlaceOrderResponse{
		OrderID:        ord.ID,
		OrderNumber:    ord.OrderNumber,
		TotalAmount:    ord.TotalAmount,
		DiscountAmount: ord.DiscountAmount,
		FinalAmount:    ord.FinalAmount,
		CouponCode:     ord.CouponCode,
		Status:         string(ord.Status),
		Payment: &PaymentSessionResponse{
			SessionID:   session.SessionID,
			Gateway:     string(s.gateway.Type()),
			Amount:      final.Amount(),
			AmountPaise: final.Paise(),
			Currency:    "INR",
		},
	}
}

func couponFailureReason(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "Coupon cannot be applied"
}
