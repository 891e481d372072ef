package payment

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oilmart/backend/internal/domain/payment"
)

// NoopAdapter implements payment.Gateway without calling any external
// provider. Every session is accepted and every signature matching
// "ok" verifies. Intended for local development and integration tests.
type NoopAdapter struct {
	counter atomic.Int64
}

// NewNoopAdapter creates a new NoopAdapter
func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{}
}

// Type returns the gateway type identifier
func (a *NoopAdapter) Type() payment.GatewayType {
	return payment.GatewayTypeNoop
}

// CreateSession returns a locally generated session
func (a *NoopAdapter) CreateSession(_ context.Context, req payment.CreateSessionRequest) (*payment.Session, error) {
	return &payment.Session{
		SessionID:   fmt.Sprintf("noop_%d_%d", time.Now().UnixMilli(), a.counter.Add(1)),
		OrderNumber: req.OrderNumber,
		Amount:      req.Amount,
		CreatedAt:   time.Now(),
	}, nil
}

// VerifyPayment accepts the fixed signature "ok"
func (a *NoopAdapter) VerifyPayment(v payment.Verification) error {
	if v.SessionID == "" || v.PaymentID == "" || v.Signature != "ok" {
		return payment.ErrInvalidSignature
	}
	return nil
}

// Refund acknowledges the refund without moving any money
func (a *NoopAdapter) Refund(_ context.Context, req payment.RefundRequest) (*payment.RefundResult, error) {
	return &payment.RefundResult{
		RefundID:  fmt.Sprintf("noop_rfnd_%d", a.counter.Add(1)),
		PaymentID: req.PaymentID,
		Amount:    req.Amount,
		CreatedAt: time.Now(),
	}, nil
}

var _ payment.Gateway = (*NoopAdapter)(nil)
