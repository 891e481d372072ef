package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oilmart/backend/internal/domain/payment"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
)

// maxResponseSize is the maximum allowed response size from the
// Razorpay API (1MB)
const maxResponseSize = 1 * 1024 * 1024

const (
	razorpayOrdersPath = "/v1/orders"
	razorpayRefundPath = "/v1/payments/%s/refund"
)

// RazorpayAdapter implements payment.Gateway against the Razorpay
// Orders API. Sessions map to Razorpay orders; the client completes
// the payment with Razorpay Checkout and returns a signature that is
// verified server-side before any order is marked paid.
type RazorpayAdapter struct {
	config     *RazorpayConfig
	httpClient *http.Client
}

// NewRazorpayAdapter creates a new Razorpay adapter
func NewRazorpayAdapter(config *RazorpayConfig) (*RazorpayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &RazorpayAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.timeoutSeconds()) * time.Second,
		},
	}, nil
}

// Type returns the gateway type identifier
func (a *RazorpayAdapter) Type() payment.GatewayType {
	return payment.GatewayTypeRazorpay
}

// CreateSession opens a Razorpay order for the given amount
func (a *RazorpayAdapter) CreateSession(ctx context.Context, req payment.CreateSessionRequest) (*payment.Session, error) {
	body := razorpayOrderRequest{
		Amount:   req.Amount.Paise(),
		Currency: string(req.Amount.Currency()),
		Receipt:  req.OrderNumber,
		Notes:    req.Notes,
	}

	var resp razorpayOrderResponse
	if err := a.doRequest(ctx, http.MethodPost, razorpayOrdersPath, body, &resp); err != nil {
		return nil, err
	}

	return &payment.Session{
		SessionID:   resp.ID,
		OrderNumber: req.OrderNumber,
		Amount:      req.Amount,
		CreatedAt:   time.Unix(resp.CreatedAt, 0),
	}, nil
}

// VerifyPayment checks the checkout signature. Razorpay signs
// "<order_id>|<payment_id>" with the key secret using HMAC SHA256.
func (a *RazorpayAdapter) VerifyPayment(v payment.Verification) error {
	if v.SessionID == "" || v.PaymentID == "" || v.Signature == "" {
		return payment.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(a.config.KeySecret))
	mac.Write([]byte(v.SessionID + "|" + v.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(v.Signature)) {
		return payment.ErrInvalidSignature
	}
	return nil
}

// Refund returns a captured payment to the customer
func (a *RazorpayAdapter) Refund(ctx context.Context, req payment.RefundRequest) (*payment.RefundResult, error) {
	body := razorpayRefundRequest{
		Amount: req.Amount.Paise(),
	}
	if req.Reason != "" {
		body.Notes = map[string]string{"reason": req.Reason}
	}

	var resp razorpayRefundResponse
	path := fmt.Sprintf(razorpayRefundPath, req.PaymentID)
	if err := a.doRequest(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	return &payment.RefundResult{
		RefundID:  resp.ID,
		PaymentID: resp.PaymentID,
		Amount:    valueobject.NewMoneyINRFromFloat(float64(resp.Amount) / 100),
		CreatedAt: time.Unix(resp.CreatedAt, 0),
	}, nil
}

func (a *RazorpayAdapter) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("razorpay: failed to marshal request: %w", err)
	}

	url := a.config.apiBaseURL() + path
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("razorpay: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(a.config.KeyID, a.config.KeySecret)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("razorpay: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr razorpayErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Description != "" {
			return fmt.Errorf("%w: %s (%s)", payment.ErrGatewayUnavailable, apiErr.Error.Description, apiErr.Error.Code)
		}
		return fmt.Errorf("%w: unexpected status %d", payment.ErrGatewayUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("razorpay: failed to parse response: %w", err)
	}
	return nil
}

var _ payment.Gateway = (*RazorpayAdapter)(nil)
