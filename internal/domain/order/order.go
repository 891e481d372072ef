package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the fulfilment status of an order
type Status string

const (
	StatusPending    Status = "pending"    // Placed, awaiting payment
	StatusProcessing Status = "processing" // Paid, being prepared
	StatusShipped    Status = "shipped"    // Handed to the carrier
	StatusDelivered  Status = "delivered"  // Received by the customer
	StatusCancelled  Status = "cancelled"  // Cancelled before delivery
)

// CanTransitionTo checks if a fulfilment status transition is allowed
func (s Status) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered, StatusCancelled},
		StatusDelivered:  {},
		StatusCancelled:  {},
	}

	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"  // Awaiting payment
	PaymentStatusPaid     PaymentStatus = "paid"     // Payment captured
	PaymentStatusFailed   PaymentStatus = "failed"   // Payment attempt failed
	PaymentStatusRefunded PaymentStatus = "refunded" // Payment returned to the customer
)

// CanTransitionTo checks if a payment status transition is allowed
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	transitions := map[PaymentStatus][]PaymentStatus{
		PaymentStatusPending:  {PaymentStatusPaid, PaymentStatusFailed},
		PaymentStatusFailed:   {PaymentStatusPaid},
		PaymentStatusPaid:     {PaymentStatusRefunded},
		PaymentStatusRefunded: {},
	}

	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// OrderItem is an immutable snapshot of a product at checkout time.
// Later price or name changes on the product never alter placed orders.
type OrderItem struct {
	shared.BaseEntity
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName    string          `gorm:"type:varchar(200);not null"`
	PricePerLitre  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	QuantityLitres int64           `gorm:"not null"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates an order line from a product snapshot
func NewOrderItem(productID uuid.UUID, productName string, unitPrice valueobject.Money, quantity int64) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &OrderItem{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		ProductName:    productName,
		PricePerLitre:  unitPrice.Amount(),
		QuantityLitres: quantity,
		TotalPrice:     unitPrice.MultiplyByInt(quantity).Amount(),
	}, nil
}

// Order represents a placed order
// It is the aggregate root; items are child entities and immutable
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	FinalAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CouponCode       *string         `gorm:"type:varchar(50)"`
	ShippingAddress  string          `gorm:"type:text;not null"`
	Status           Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus    PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentSessionID string          `gorm:"type:varchar(100);index"`
	PaymentID        string          `gorm:"type:varchar(100)"`
	PaidAt           *time.Time
	Items            []OrderItem `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order from item snapshots.
// The subtotal is recomputed from the items; discount comes from the
// coupon evaluation done by the caller. FinalAmount is always
// TotalAmount minus DiscountAmount.
func NewOrder(userID uuid.UUID, orderNumber, shippingAddress string, items []*OrderItem, couponCode *string, discount valueobject.Money) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if shippingAddress == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	if discount.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
	}

	if discount.Amount().GreaterThan(subtotal) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		TotalAmount:       subtotal,
		DiscountAmount:    discount.Amount(),
		FinalAmount:       subtotal.Sub(discount.Amount()),
		CouponCode:        couponCode,
		ShippingAddress:   shippingAddress,
		Status:            StatusPending,
		PaymentStatus:     PaymentStatusPending,
	}

	for _, item := range items {
		item.OrderID = order.ID
		order.Items = append(order.Items, *item)
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// AttachPaymentSession records the gateway order created for this order
func (o *Order) AttachPaymentSession(sessionID string) error {
	if sessionID == "" {
		return shared.NewDomainError("INVALID_SESSION", "Payment session ID cannot be empty")
	}

	o.PaymentSessionID = sessionID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkPaid records a captured payment and moves the order to processing
func (o *Order) MarkPaid(paymentID string) error {
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusPaid) {
		return shared.NewDomainError("INVALID_PAYMENT_TRANSITION", "Order payment is not awaiting capture")
	}
	if !o.Status.CanTransitionTo(StatusProcessing) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Order cannot move to processing")
	}

	now := time.Now()
	o.PaymentStatus = PaymentStatusPaid
	o.PaymentID = paymentID
	o.PaidAt = &now
	o.Status = StatusProcessing
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// MarkPaymentFailed records a failed payment attempt
// The order stays pending so the customer can retry
func (o *Order) MarkPaymentFailed() error {
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusFailed) {
		return shared.NewDomainError("INVALID_PAYMENT_TRANSITION", "Order payment cannot be marked failed")
	}

	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkRefunded records that the captured payment was returned
func (o *Order) MarkRefunded() error {
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusRefunded) {
		return shared.NewDomainError("INVALID_PAYMENT_TRANSITION", "Only paid orders can be refunded")
	}

	o.PaymentStatus = PaymentStatusRefunded
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// TransitionTo moves the order to a new fulfilment status
func (o *Order) TransitionTo(target Status) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot transition order from "+string(o.Status)+" to "+string(target))
	}

	oldStatus := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus, target))
	if target == StatusCancelled {
		o.AddDomainEvent(NewOrderCancelledEvent(o))
	}

	return nil
}

// Cancel cancels the order
func (o *Order) Cancel() error {
	return o.TransitionTo(StatusCancelled)
}

// IsPaid returns true if the payment was captured
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// IsAwaitingPayment returns true while the order can still be paid
func (o *Order) IsAwaitingPayment() bool {
	return o.Status == StatusPending &&
		(o.PaymentStatus == PaymentStatusPending || o.PaymentStatus == PaymentStatusFailed)
}

// BelongsTo returns true if the order was placed by the given user
func (o *Order) BelongsTo(userID uuid.UUID) bool {
	return o.UserID == userID
}

// TotalQuantity returns the total litres across the order
func (o *Order) TotalQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.QuantityLitres
	}
	return total
}

// Validate checks the order money invariant
func (o *Order) Validate() error {
	if !o.FinalAmount.Equal(o.TotalAmount.Sub(o.DiscountAmount)) {
		return shared.NewDomainError("INVALID_AMOUNTS", "Final amount must equal total minus discount")
	}
	if o.DiscountAmount.IsNegative() || o.FinalAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNTS", "Order amounts cannot be negative")
	}
	return nil
}
