package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain services return their own codes
// which pass through to clients unchanged.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
	CodeRateLimited  = "RATE_LIMIT"
)

// statusByCode maps error codes that do not follow one of the naming
// conventions handled by GetHTTPStatus fallbacks.
var statusByCode = map[string]int{
	CodeValidation:   http.StatusBadRequest,
	CodeBadRequest:   http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeNotFound:     http.StatusNotFound,
	CodeInternal:     http.StatusInternalServerError,
	CodeRateLimited:  http.StatusTooManyRequests,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,

	"NOT_ADMIN":        http.StatusForbidden,
	"ACCOUNT_BLOCKED":  http.StatusForbidden,
	"ACCOUNT_INACTIVE": http.StatusForbidden,
	"ACCOUNT_LOCKED":   http.StatusForbidden,
	"USER_BLOCKED":     http.StatusForbidden,

	"EMAIL_TAKEN":          http.StatusConflict,
	"CODE_TAKEN":           http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"INSUFFICIENT_STOCK":         http.StatusUnprocessableEntity,
	"CART_EMPTY":                 http.StatusUnprocessableEntity,
	"EMPTY_ORDER":                http.StatusUnprocessableEntity,
	"COUPON_EXPIRED":             http.StatusUnprocessableEntity,
	"COUPON_INACTIVE":            http.StatusUnprocessableEntity,
	"COUPON_EXHAUSTED":           http.StatusUnprocessableEntity,
	"MIN_ORDER_NOT_MET":          http.StatusUnprocessableEntity,
	"INVALID_STATE":              http.StatusUnprocessableEntity,
	"INVALID_STATUS_TRANSITION":  http.StatusUnprocessableEntity,
	"INVALID_PAYMENT_TRANSITION": http.StatusUnprocessableEntity,
	"ORDER_NOT_CANCELLABLE":      http.StatusUnprocessableEntity,
	"ORDER_NOT_PAID":             http.StatusUnprocessableEntity,
	"ORDER_NOT_PAYABLE":          http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE":        http.StatusUnprocessableEntity,
	"SELF_BLOCK":                 http.StatusUnprocessableEntity,
	"SELF_DEMOTE":                http.StatusUnprocessableEntity,
	"NO_OFFER_PRICE":             http.StatusUnprocessableEntity,
	"INVALID_SIGNATURE":          http.StatusUnprocessableEntity,

	"UNSUPPORTED_IMAGE_TYPE": http.StatusBadRequest,
	"IMAGE_TOO_LARGE":        http.StatusBadRequest,

	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
	"TOKEN_ERROR":         http.StatusInternalServerError,
	"GATEWAY_UNAVAILABLE": http.StatusBadGateway,
	"REFUND_FAILED":       http.StatusBadGateway,
}

// GetHTTPStatus resolves the HTTP status for an error code. Codes
// outside the explicit map fall back to naming conventions shared by
// the domain packages.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "ALREADY_"):
		return http.StatusConflict
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
