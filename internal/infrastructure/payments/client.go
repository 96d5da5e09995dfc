package payments

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const (
	ordersPath      = "/api/ecommerce/orders"
	paymentKeysPath = "/api/acceptance/payment_keys"

	// Payment key lifetime requested from the gateway, in seconds.
	paymentKeyExpiration = 3600
)

// Client is the Paymob Accept gateway client. Every public operation is
// self-contained: it authenticates, performs its calls and returns a total
// result value describing success or a specific failure. No operation panics
// or returns a bare error to the caller. Client is safe for concurrent use;
// the only shared state is the memoized bearer token.
type Client struct {
	cfg    PaymobConfig
	t      *transport
	tokens tokenSource

	now        func() time.Time
	newOrderID func() string
}

func NewClient(cfg PaymobConfig) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:        cfg,
		t:          newTransport(cfg.BaseURL, cfg.HTTPTimeout),
		now:        time.Now,
		newOrderID: uuid.NewString,
	}
}

// OrderCreationRequest describes the charge to register with the gateway.
// Amount is in currency major units; billing fields are optional and fall
// back to the configured placeholders.
type OrderCreationRequest struct {
	PayerID      string
	Amount       float64
	Currency     string
	BillingName  string
	BillingEmail string
	BillingPhone string
}

// OrderCreationResult reports the create-charge outcome. GatewayOrderID may be
// set even when Success is false: order registration can succeed while payment
// key generation fails, and the caller needs the partial identifier to
// reconcile later.
type OrderCreationResult struct {
	Success         bool
	GatewayOrderID  string
	MerchantOrderID string
	RedirectURL     string
	ErrorMessage    string
}

// CreateOrder drives the create-charge sequence: authenticate, register the
// order, generate a payment key, build the checkout redirect URL. It
// short-circuits on the first failure but keeps any identifier already
// obtained. The merchant order id is generated once per logical call and
// stays fixed across the single transient-failure retry, so the gateway can
// deduplicate.
func (c *Client) CreateOrder(ctx context.Context, req OrderCreationRequest) OrderCreationResult {
	if req.Amount <= 0 {
		return OrderCreationResult{ErrorMessage: "order amount must be positive"}
	}

	currency := req.Currency
	if currency == "" {
		currency = c.cfg.Currency
	}
	amountCents := toMinorUnits(req.Amount)

	token, err := c.authenticate(ctx)
	if err != nil {
		return OrderCreationResult{ErrorMessage: "gateway authentication failed"}
	}

	merchantOrderID := c.newOrderID()
	orderDoc, err := c.callWithRetry(ctx, http.MethodPost, ordersPath, token, map[string]any{
		"amount_cents":      amountCents,
		"currency":          currency,
		"merchant_order_id": merchantOrderID,
		"delivery_needed":   false,
		"items":             []any{},
	})
	if err != nil {
		log.Printf("[payment][gateway] order registration failed merchant_order_id=%s err=%v", merchantOrderID, err)
		return OrderCreationResult{
			MerchantOrderID: merchantOrderID,
			ErrorMessage:    "gateway order registration failed",
		}
	}
	orderID, ok := extractIdentifier(orderDoc)
	if !ok {
		log.Printf("[payment][gateway] order registration returned no id merchant_order_id=%s", merchantOrderID)
		return OrderCreationResult{
			MerchantOrderID: merchantOrderID,
			ErrorMessage:    "gateway order registration returned no order id",
		}
	}

	keyDoc, err := c.call(ctx, http.MethodPost, paymentKeysPath, token, map[string]any{
		"amount_cents":   amountCents,
		"currency":       currency,
		"order_id":       orderID,
		"integration_id": c.cfg.IntegrationID,
		"expiration":     paymentKeyExpiration,
		"billing_data":   c.billingData(req),
	})
	if err != nil {
		log.Printf("[payment][gateway] payment key generation failed order_id=%s err=%v", orderID, err)
		return OrderCreationResult{
			GatewayOrderID:  orderID,
			MerchantOrderID: merchantOrderID,
			ErrorMessage:    "gateway payment key generation failed",
		}
	}
	paymentKey, ok := extractPaymentKey(keyDoc)
	if !ok {
		log.Printf("[payment][gateway] payment key response carries no token order_id=%s", orderID)
		return OrderCreationResult{
			GatewayOrderID:  orderID,
			MerchantOrderID: merchantOrderID,
			ErrorMessage:    "gateway payment key response carries no token",
		}
	}

	log.Printf("[payment][gateway] order created order_id=%s merchant_order_id=%s", orderID, merchantOrderID)
	return OrderCreationResult{
		Success:         true,
		GatewayOrderID:  orderID,
		MerchantOrderID: merchantOrderID,
		RedirectURL:     c.checkoutURL(paymentKey),
	}
}

func (c *Client) checkoutURL(paymentKey string) string {
	return fmt.Sprintf("%s/api/acceptance/iframes/%s?payment_token=%s",
		c.t.baseURL, c.cfg.IframeID, url.QueryEscape(paymentKey))
}

func (c *Client) billingData(req OrderCreationRequest) map[string]any {
	name := req.BillingName
	if name == "" {
		name = c.cfg.BillingName
	}
	email := req.BillingEmail
	if email == "" {
		email = c.cfg.BillingEmail
	}
	phone := req.BillingPhone
	if phone == "" {
		phone = c.cfg.BillingPhone
	}
	return map[string]any{
		"first_name":   name,
		"last_name":    "NA",
		"email":        email,
		"phone_number": phone,
		"street":       "NA",
		"building":     "NA",
		"floor":        "NA",
		"apartment":    "NA",
		"city":         "NA",
		"country":      "NA",
	}
}

// call performs one authenticated round-trip and interprets the result: a
// non-2xx status becomes a RequestError (invalidating the memoized token on
// 401), a 2xx body that is not a JSON object becomes a ParseError.
func (c *Client) call(ctx context.Context, method, path, token string, body any) (map[string]any, error) {
	status, raw, err := c.t.do(ctx, method, path, token, body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		reqErr := &RequestError{StatusCode: status, Body: string(raw)}
		if isUnauthorized(reqErr) {
			c.tokens.invalidate()
		}
		return nil, reqErr
	}
	doc, ok := parseDoc(raw)
	if !ok {
		return nil, &ParseError{Field: "body"}
	}
	return doc, nil
}

// callWithRetry retries exactly once after a transient failure (5xx or
// transport). The request body, including any idempotency identifier inside
// it, is reused unchanged.
func (c *Client) callWithRetry(ctx context.Context, method, path, token string, body any) (map[string]any, error) {
	doc, err := c.call(ctx, method, path, token, body)
	if err == nil || !isRetryable(err) || ctx.Err() != nil {
		return doc, err
	}
	log.Printf("[payment][gateway] transient failure, retrying once path=%s err=%v", path, err)
	select {
	case <-ctx.Done():
		return nil, &TransportError{Err: ctx.Err()}
	case <-time.After(500 * time.Millisecond):
	}
	return c.call(ctx, method, path, token, body)
}
