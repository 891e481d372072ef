package payment

import (
	"errors"
	"strings"
)

// razorpayAPIBaseURL is the production Razorpay API endpoint
const razorpayAPIBaseURL = "https://api.razorpay.com"

// Config validation errors
var (
	ErrMissingKeyID     = errors.New("razorpay: key ID is required")
	ErrMissingKeySecret = errors.New("razorpay: key secret is required")
)

// RazorpayConfig holds the credentials and endpoint for the Razorpay
// gateway adapter
type RazorpayConfig struct {
	KeyID          string
	KeySecret      string
	WebhookSecret  string
	BaseURL        string // Override for testing, defaults to the production API
	TimeoutSeconds int
}

// Validate checks that the required credentials are present
func (c *RazorpayConfig) Validate() error {
	if strings.TrimSpace(c.KeyID) == "" {
		return ErrMissingKeyID
	}
	if strings.TrimSpace(c.KeySecret) == "" {
		return ErrMissingKeySecret
	}
	return nil
}

// apiBaseURL returns the configured base URL or the production default
func (c *RazorpayConfig) apiBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return razorpayAPIBaseURL
}

// timeoutSeconds returns the configured HTTP timeout or a sane default
func (c *RazorpayConfig) timeoutSeconds() int {
	if c.TimeoutSeconds > 0 {
		return c.TimeoutSeconds
	}
	return 30
}
