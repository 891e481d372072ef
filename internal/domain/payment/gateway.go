package payment

import (
	"context"
	"time"

	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
)

// GatewayType identifies a payment gateway implementation
type GatewayType string

const (
	GatewayTypeRazorpay GatewayType = "razorpay"
	GatewayTypeNoop     GatewayType = "noop"
)

// Gateway errors
var (
	ErrInvalidSignature   = shared.NewDomainError("INVALID_SIGNATURE", "Payment signature verification failed")
	ErrSessionNotFound    = shared.NewDomainError("SESSION_NOT_FOUND", "Payment session not found")
	ErrGatewayUnavailable = shared.NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway is unavailable")
)

// CreateSessionRequest describes the order a payment session is opened for
type CreateSessionRequest struct {
	OrderNumber string
	Amount      valueobject.Money
	CustomerID  string
	Notes       map[string]string
}

// Session is a gateway-side order awaiting payment
type Session struct {
	SessionID   string
	OrderNumber string
	Amount      valueobject.Money
	CreatedAt   time.Time
}

// Verification carries the fields a client returns after completing
// a payment, to be checked against the gateway signature
type Verification struct {
	SessionID string
	PaymentID string
	Signature string
}

// RefundRequest asks the gateway to return a captured payment
type RefundRequest struct {
	PaymentID string
	Amount    valueobject.Money
	Reason    string
}

// RefundResult is the gateway's answer to a refund request
type RefundResult struct {
	RefundID  string
	PaymentID string
	Amount    valueobject.Money
	CreatedAt time.Time
}

// Gateway abstracts the payment provider.
// Checkout opens a session, the client pays against it, and the
// returned credentials are verified server-side before the order is
// marked paid.
type Gateway interface {
	// Type returns the gateway type identifier
	Type() GatewayType

	// CreateSession opens a payment session for an order
	CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error)

	// VerifyPayment checks the signature returned by the client
	// Returns ErrInvalidSignature when the fields do not match
	VerifyPayment(v Verification) error

	// Refund returns a captured payment to the customer
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
}
