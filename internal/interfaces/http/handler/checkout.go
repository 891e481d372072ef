package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oilmart/backend/internal/application/checkout"
)

// maxWebhookBodySize caps gateway webhook payloads (256KB)
const maxWebhookBodySize = 256 * 1024

// CheckoutHandler handles checkout and payment HTTP requests
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkout.CheckoutService
	webhookSecret   string
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.CheckoutService, webhookSecret string) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		webhookSecret:   webhookSecret,
	}
}

// Quote godoc
// @Summary      Quote checkout
// @Description  Price the caller's cart server-side, optionally applying a coupon
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body checkout.QuoteRequest true "Optional coupon code"
// @Success      200 {object} dto.Response{data=checkout.QuoteResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkout/quote [post]
func (h *CheckoutHandler) Quote(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req checkout.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	quote, err := h.checkoutService.Quote(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// PlaceOrder godoc
// @Summary      Place order
// @Description  Convert the caller's cart into a pending order and open a payment session
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body checkout.PlaceOrderRequest true "Shipping address and optional coupon"
// @Success      201 {object} dto.Response{data=checkout.PlaceOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkout/orders [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// VerifyPayment godoc
// @Summary      Verify payment
// @Description  Verify the gateway signature returned by the client and mark the order paid
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body checkout.VerifyPaymentRequest true "Gateway payment credentials"
// @Success      200 {object} dto.Response{data=checkout.VerifyPaymentResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkout/payments/verify [post]
func (h *CheckoutHandler) VerifyPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req checkout.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.checkoutService.VerifyPayment(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// webhookEvent is the subset of the Razorpay webhook payload the
// backend consumes
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentWebhook godoc
// @Summary      Payment gateway webhook
// @Description  Reconcile payment captures pushed by the gateway. Authenticated by the webhook signature, not a user token.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        X-Razorpay-Signature header string true "HMAC signature of the raw body"
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payments/webhook [post]
func (h *CheckoutHandler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodySize))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if !h.verifyWebhookSignature(body, signature) {
		h.Unauthorized(c, "Invalid webhook signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.BadRequest(c, "Invalid webhook payload")
		return
	}

	// Gateways retry webhooks on non-2xx responses. Events the backend
	// does not consume are acknowledged, not rejected.
	if event.Event != "payment.captured" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	sessionID := event.Payload.Payment.Entity.OrderID
	paymentID := event.Payload.Payment.Entity.ID
	if sessionID == "" || paymentID == "" {
		h.BadRequest(c, "Invalid webhook payload")
		return
	}

	if _, err := h.checkoutService.CapturePayment(c.Request.Context(), sessionID, paymentID); err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *CheckoutHandler) verifyWebhookSignature(body []byte, signature string) bool {
	if h.webhookSecret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
