package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const transactionsPath = "/api/acceptance/transactions"

// CallbackNotification is the inbound webhook payload reduced to the only
// field we trust: the gateway transaction identifier. Everything else in the
// notification is advisory and must be re-derived from a live query.
type CallbackNotification struct {
	GatewayTransactionID string
}

// VerificationResult reports a callback verification. Verified means the
// gateway was successfully re-queried; Succeeded means the transaction is
// actually paid according to the gateway itself. Succeeded is never true
// without Verified.
type VerificationResult struct {
	Verified             bool
	Succeeded            bool
	GatewayTransactionID string
	GatewayOrderID       string
	Amount               float64
	AmountKnown          bool
	ErrorMessage         string
}

// VerifyCallback re-queries the gateway for the transaction named by the
// notification and decides success from the gateway's own answer. An attacker
// who can POST to the webhook endpoint cannot fabricate a paid outcome: only
// the identifier is taken from the notification, and the verdict comes from
// the requery.
func (c *Client) VerifyCallback(ctx context.Context, n CallbackNotification) VerificationResult {
	txnID := strings.TrimSpace(n.GatewayTransactionID)
	if txnID == "" {
		return VerificationResult{ErrorMessage: "callback carries no transaction id"}
	}

	token, err := c.authenticate(ctx)
	if err != nil {
		return VerificationResult{GatewayTransactionID: txnID, ErrorMessage: "gateway authentication failed"}
	}

	doc, err := c.call(ctx, http.MethodGet, transactionsPath+"/"+url.PathEscape(txnID), token, nil)
	if err != nil {
		log.Printf("[payment][gateway] transaction requery failed txn_id=%s err=%v", txnID, err)
		return VerificationResult{GatewayTransactionID: txnID, ErrorMessage: "gateway transaction lookup failed"}
	}

	result := VerificationResult{
		Verified:             true,
		GatewayTransactionID: txnID,
	}
	if canonical, ok := extractIdentifier(doc); ok {
		result.GatewayTransactionID = canonical
	}
	if order, ok := nestedObject(doc, "order"); ok {
		if orderID, found := coerceString(order["id"]); found {
			result.GatewayOrderID = orderID
		}
	}
	result.Succeeded = mapStatus(doc) == StatusPaid
	if cents, ok := extractAmountCents(doc); ok {
		result.Amount = toMajorUnits(cents)
		result.AmountKnown = true
	}

	log.Printf("[payment][gateway] callback verified txn_id=%s succeeded=%t", result.GatewayTransactionID, result.Succeeded)
	return result
}

// RefundRequest asks for a (partial) refund of a known gateway transaction.
// Amount is in currency major units.
type RefundRequest struct {
	GatewayTransactionID string
	Amount               float64
	Reason               string
}

// RefundResult reports a refund attempt. A 2xx answer without an extractable
// refund identifier is still a success: the gateway accepted the refund, the
// id is simply unknown.
type RefundResult struct {
	Success      bool
	RefundID     string
	ErrorMessage string
}

// Refund issues a refund against the configured refund endpoint.
func (c *Client) Refund(ctx context.Context, req RefundRequest) RefundResult {
	txnID := strings.TrimSpace(req.GatewayTransactionID)
	if txnID == "" {
		return RefundResult{ErrorMessage: "refund requires a gateway transaction id"}
	}
	if req.Amount <= 0 {
		return RefundResult{ErrorMessage: "refund amount must be positive"}
	}

	token, err := c.authenticate(ctx)
	if err != nil {
		return RefundResult{ErrorMessage: "gateway authentication failed"}
	}

	doc, err := c.call(ctx, http.MethodPost, c.cfg.RefundPath, token, map[string]any{
		"transaction_id": txnID,
		"amount_cents":   toMinorUnits(req.Amount),
		"reason":         req.Reason,
	})
	if err != nil {
		log.Printf("[payment][gateway] refund failed txn_id=%s err=%v", txnID, err)
		// The raw body goes to the operator: refund rejections carry
		// account-specific detail worth reading.
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			return RefundResult{ErrorMessage: fmt.Sprintf("gateway refused refund: status=%d body=%s", reqErr.StatusCode, reqErr.Body)}
		}
		return RefundResult{ErrorMessage: "gateway refund call failed"}
	}

	refundID, _ := extractIdentifier(doc)
	log.Printf("[payment][gateway] refund accepted txn_id=%s refund_id=%q", txnID, refundID)
	return RefundResult{Success: true, RefundID: refundID}
}

// OrderStatusResult is the current gateway-side state of an order, for
// reconciliation. CompletedAt is nil when the gateway reports no parseable
// completion timestamp; that alone never fails the call.
type OrderStatusResult struct {
	Status       Status
	Amount       float64
	AmountKnown  bool
	Currency     string
	CompletedAt  *time.Time
	ErrorMessage string
}

// GetOrderStatus fetches the transaction recorded for a gateway order. The
// endpoint answers either a bare transaction object or a list wrapper under
// "results" or "data"; the first element wins.
func (c *Client) GetOrderStatus(ctx context.Context, gatewayOrderID string) OrderStatusResult {
	orderID := strings.TrimSpace(gatewayOrderID)
	if orderID == "" {
		return OrderStatusResult{Status: StatusUnknown, ErrorMessage: "missing gateway order id"}
	}

	token, err := c.authenticate(ctx)
	if err != nil {
		return OrderStatusResult{Status: StatusUnknown, ErrorMessage: "gateway authentication failed"}
	}

	doc, err := c.callWithRetry(ctx, http.MethodGet, transactionsPath+"?order_id="+url.QueryEscape(orderID), token, nil)
	if err != nil {
		log.Printf("[payment][gateway] status poll failed order_id=%s err=%v", orderID, err)
		return OrderStatusResult{Status: StatusUnknown, ErrorMessage: "gateway status lookup failed"}
	}

	txn := firstTransaction(doc)
	if txn == nil {
		// No transaction yet: the order exists but nobody paid.
		return OrderStatusResult{Status: StatusPending}
	}

	result := OrderStatusResult{Status: mapStatus(txn)}
	if cents, ok := extractAmountCents(txn); ok {
		result.Amount = toMajorUnits(cents)
		result.AmountKnown = true
	}
	if currency, ok := coerceString(txn["currency"]); ok {
		result.Currency = currency
	}
	result.CompletedAt = parseCompletedAt(txn)
	return result
}

// firstTransaction unwraps a possible list envelope around the transaction.
func firstTransaction(doc map[string]any) map[string]any {
	for _, key := range []string{"results", "data"} {
		if list, ok := doc[key].([]any); ok {
			if len(list) == 0 {
				return nil
			}
			if first, ok := list[0].(map[string]any); ok {
				return first
			}
			return nil
		}
	}
	if _, ok := doc["id"]; ok {
		return doc
	}
	return nil
}

var completedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseCompletedAt(txn map[string]any) *time.Time {
	s, ok := coerceString(txn["created_at"])
	if !ok {
		return nil
	}
	for _, layout := range completedAtLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	return nil
}
