package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/application/checkout"
	"github.com/oilmart/backend/internal/domain/order"
	"github.com/oilmart/backend/internal/domain/payment"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
)

// OrderService handles order history, admin fulfilment transitions and
// the pending order expiration sweep.
type OrderService struct {
	scope     checkout.TransactionScope
	orderRepo order.Repository
	gateway   payment.Gateway
	eventBus  shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	scope checkout.TransactionScope,
	orderRepo order.Repository,
	gateway payment.Gateway,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		scope:     scope,
		orderRepo: orderRepo,
		gateway:   gateway,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// ListMyOrders returns the customer's own orders, newest first
func (s *OrderService) ListMyOrders(ctx context.Context, userID uuid.UUID, req MyOrdersRequest) (*OrderListResponse, error) {
	filter := order.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		UserID:   &userID,
	}
	return s.list(ctx, filter)
}

// GetMyOrder returns one of the customer's own orders with its items
func (s *OrderService) GetMyOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	ord, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if !ord.BelongsTo(userID) {
		return nil, shared.ErrForbidden
	}

	resp := toOrderResponse(ord, true)
	return &resp, nil
}

// GetMyOrderByNumber resolves an order by its public order number
func (s *OrderService) GetMyOrderByNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*OrderResponse, error) {
	ord, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if !ord.BelongsTo(userID) {
		return nil, shared.ErrForbidden
	}

	resp := toOrderResponse(ord, true)
	return &resp, nil
}

// CancelMyOrder lets a customer cancel their own order while it is
// still pending
func (s *OrderService) CancelMyOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	ord, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if !ord.BelongsTo(userID) {
		return nil, shared.ErrForbidden
	}
	if ord.Status != order.StatusPending {
		return nil, shared.NewDomainError("ORDER_NOT_CANCELLABLE", "Only pending orders can be cancelled")
	}

	return s.Cancel(ctx, orderID)
}

// List returns orders matching the admin filter
func (s *OrderService) List(ctx context.Context, req ListOrdersRequest) (*OrderListResponse, error) {
	filter := order.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
	}
	if req.Status != "" {
		status := order.Status(req.Status)
		filter.Status = &status
	}
	if req.PaymentStatus != "" {
		paymentStatus := order.PaymentStatus(req.PaymentStatus)
		filter.PaymentStatus = &paymentStatus
	}
	if req.From != "" {
		from, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE_FILTER", "Date filter must be YYYY-MM-DD")
		}
		filter.PlacedAfter = &from
	}
	if req.To != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE_FILTER", "Date filter must be YYYY-MM-DD")
		}
		end := to.AddDate(0, 0, 1)
		filter.PlacedBefore = &end
	}
	return s.list(ctx, filter)
}

// Get returns an order with its items for the admin panel
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	ord, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	resp := toOrderResponse(ord, true)
	return &resp, nil
}

// UpdateStatus moves an order along its fulfilment lifecycle.
// Cancellation restores stock and refunds a captured payment.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := order.Status(req.Status)
	if target == order.StatusCancelled {
		return s.Cancel(ctx, id)
	}

	ord, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	if err := ord.TransitionTo(target); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, ord); err != nil {
		s.logger.Error("Failed to update order status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
	}

	s.logger.Info("Order status changed",
		zap.String("order_number", ord.OrderNumber),
		zap.String("status", string(target)))

	s.publishEvents(ctx, ord)

	resp := toOrderResponse(ord, true)
	return &resp, nil
}

// UpdatePaymentStatus handles manual payment reconciliation: marking
// an order paid when the gateway callback never arrived, or refunding
// a captured payment without cancelling the order.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req UpdatePaymentStatusRequest) (*OrderResponse, error) {
	ord, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	switch order.PaymentStatus(req.PaymentStatus) {
	case order.PaymentStatusPaid:
		reference := req.PaymentReference
		if reference == "" {
			reference = "manual"
		}
		if err := ord.MarkPaid(reference); err != nil {
			return nil, err
		}
		if err := s.orderRepo.Update(ctx, ord); err != nil {
			s.logger.Error("Failed to record payment", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
		}
		s.logger.Info("Payment reconciled manually",
			zap.String("order_number", ord.OrderNumber),
			zap.String("payment_id", reference))
	case order.PaymentStatusRefunded:
		if ord.PaymentStatus != order.PaymentStatusPaid {
			return nil, shared.NewDomainError("ORDER_NOT_PAID", "Only paid orders can be refunded")
		}
		if err := s.refund(ctx, ord); err != nil {
			return nil, err
		}
	default:
		return nil, shared.NewDomainError("INVALID_PAYMENT_STATUS", "Payment status must be paid or refunded")
	}

	s.publishEvents(ctx, ord)

	resp := toOrderResponse(ord, true)
	return &resp, nil
}

// Cancel cancels an order, restoring the stock its items reserved.
// A captured payment is refunded through the gateway after the
// cancellation commits.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	var cancelled *order.Order

	err := s.scope.Execute(ctx, func(repos checkout.TransactionalRepositories) error {
		ord, err := repos.Orders().FindByID(ctx, id)
		if err != nil {
			return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}

		if err := ord.Cancel(); err != nil {
			return err
		}

		for _, item := range ord.Items {
			product, err := repos.Products().FindByID(ctx, item.ProductID)
			if err != nil {
				// Product deleted since the order was placed
				continue
			}
			if err := product.IncreaseStock(item.QuantityLitres); err != nil {
				return err
			}
			if err := repos.Products().Update(ctx, product); err != nil {
				return err
			}
		}

		if err := repos.Orders().Update(ctx, ord); err != nil {
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
		}

		cancelled = ord
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled", zap.String("order_number", cancelled.OrderNumber))

	if cancelled.IsPaid() {
		if err := s.refund(ctx, cancelled); err != nil {
			return nil, err
		}
	}

	s.publishEvents(ctx, cancelled)

	resp := toOrderResponse(cancelled, true)
	return &resp, nil
}

// ExpireStalePending cancels one batch of pending orders whose payment
// never arrived and returns their stock. Returns the number of orders
// expired.
func (s *OrderService) ExpireStalePending(ctx context.Context, olderThan time.Duration, batchSize int) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	stale, err := s.orderRepo.FindExpiredPending(ctx, cutoff, batchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, ord := range stale {
		if _, err := s.Cancel(ctx, ord.ID); err != nil {
			s.logger.Error("Failed to expire pending order",
				zap.String("order_number", ord.OrderNumber),
				zap.Error(err))
			continue
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info("Expired stale pending orders", zap.Int("count", expired))
	}

	return expired, nil
}

func (s *OrderService) refund(ctx context.Context, ord *order.Order) error {
	result, err := s.gateway.Refund(ctx, payment.RefundRequest{
		PaymentID: ord.PaymentID,
		Amount:    valueobject.NewMoneyINR(ord.FinalAmount),
		Reason:    "Order cancelled",
	})
	if err != nil {
		s.logger.Error("Refund failed, needs manual follow up",
			zap.String("order_number", ord.OrderNumber),
			zap.String("payment_id", ord.PaymentID),
			zap.Error(err))
		return shared.NewDomainError("REFUND_FAILED", "Order cancelled but the refund failed")
	}

	if err := ord.MarkRefunded(); err != nil {
		return err
	}
	if err := s.orderRepo.Update(ctx, ord); err != nil {
		s.logger.Error("Failed to record refund", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to record refund")
	}

	s.logger.Info("Payment refunded",
		zap.String("order_number", ord.OrderNumber),
		zap.String("refund_id", result.RefundID))

	return nil
}

func (s *OrderService) list(ctx context.Context, filter order.Filter) (*OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, ord := range orders {
		responses = append(responses, toOrderResponse(ord, false))
	}

	return &OrderListResponse{
		Orders:   responses,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *OrderService) publishEvents(ctx context.Context, ord *order.Order) {
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
