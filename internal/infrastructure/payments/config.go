package payments

import (
	"os"
	"time"
)

const (
	defaultBaseURL     = "https://accept.paymob.com"
	defaultCurrency    = "EGP"
	defaultRefundPath  = "/api/acceptance/void_refund/refund"
	defaultHTTPTimeout = 30 * time.Second
)

// PaymobConfig carries the Accept merchant credentials and endpoint settings.
//
// The refund endpoint differs between merchant account regions, so its path is
// configuration rather than code (PAYMOB_REFUND_PATH).
//
// Values are immutable after construction; every component receives the config
// explicitly, there is no package-level state.
type PaymobConfig struct {
	BaseURL       string
	APIKey        string
	IntegrationID string
	IframeID      string
	Currency      string
	RefundPath    string

	// Billing placeholders sent with payment key generation when the caller
	// provides no billing data. Paymob rejects empty billing_data fields.
	BillingName  string
	BillingEmail string
	BillingPhone string

	HTTPTimeout time.Duration
}

// ConfigFromEnv builds a PaymobConfig from environment variables.
//
// Supported env vars:
//   - PAYMOB_BASE_URL (default: https://accept.paymob.com)
//   - PAYMOB_API_KEY
//   - PAYMOB_INTEGRATION_ID
//   - PAYMOB_IFRAME_ID
//   - PAYMOB_CURRENCY (default: EGP)
//   - PAYMOB_REFUND_PATH (default: /api/acceptance/void_refund/refund)
//   - PAYMOB_BILLING_NAME / PAYMOB_BILLING_EMAIL / PAYMOB_BILLING_PHONE
func ConfigFromEnv() PaymobConfig {
	return PaymobConfig{
		BaseURL:       getenvDefault("PAYMOB_BASE_URL", defaultBaseURL),
		APIKey:        os.Getenv("PAYMOB_API_KEY"),
		IntegrationID: os.Getenv("PAYMOB_INTEGRATION_ID"),
		IframeID:      os.Getenv("PAYMOB_IFRAME_ID"),
		Currency:      getenvDefault("PAYMOB_CURRENCY", defaultCurrency),
		RefundPath:    getenvDefault("PAYMOB_REFUND_PATH", defaultRefundPath),
		BillingName:   getenvDefault("PAYMOB_BILLING_NAME", "NA"),
		BillingEmail:  getenvDefault("PAYMOB_BILLING_EMAIL", "na@example.com"),
		BillingPhone:  getenvDefault("PAYMOB_BILLING_PHONE", "NA"),
		HTTPTimeout:   defaultHTTPTimeout,
	}
}

func (c PaymobConfig) withDefaults() PaymobConfig {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Currency == "" {
		c.Currency = defaultCurrency
	}
	if c.RefundPath == "" {
		c.RefundPath = defaultRefundPath
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	return c
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
