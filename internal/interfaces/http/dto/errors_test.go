package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus_ExplicitCodes(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeInternal, http.StatusInternalServerError},
		{CodeRateLimited, http.StatusTooManyRequests},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"ACCOUNT_BLOCKED", http.StatusForbidden},
		{"EMAIL_TAKEN", http.StatusConflict},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"ORDER_NOT_CANCELLABLE", http.StatusUnprocessableEntity},
		{"INVALID_SIGNATURE", http.StatusUnprocessableEntity},
		{"GATEWAY_UNAVAILABLE", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestGetHTTPStatus_Fallbacks(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus("PRODUCT_NOT_FOUND"))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus("COUPON_NOT_FOUND"))
	assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus("TOKEN_EXPIRED"))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus("ALREADY_REVIEWED"))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_QUANTITY"))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ELSE"))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("PRODUCT_NOT_FOUND", "Product not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, "PRODUCT_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Invalid request", "req-123", []ValidationDetail{
		{Field: "email", Message: "must be a valid email"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, CodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}
