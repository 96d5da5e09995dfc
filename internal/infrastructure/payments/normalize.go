package payments

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Status is the canonical transaction outcome, independent of gateway wording.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
	StatusUnknown Status = "unknown"
)

// The gateway's response schema varies by endpoint and merchant account
// region: the same concept shows up under different keys and nesting. All of
// that shape knowledge is concentrated in the extractors below so the rest of
// the client can assume canonical types. Every extractor is total: malformed
// or missing fields yield an absent value, never a panic or error.

func parseDoc(raw []byte) (map[string]any, bool) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	return doc, true
}

// extractIdentifier locates the object identifier, checking top-level "id",
// then "order.id", then "data.id". Numeric identifiers are coerced to their
// decimal string form.
func extractIdentifier(doc map[string]any) (string, bool) {
	if s, ok := coerceString(doc["id"]); ok {
		return s, true
	}
	if order, ok := nestedObject(doc, "order"); ok {
		if s, ok := coerceString(order["id"]); ok {
			return s, true
		}
	}
	if data, ok := nestedObject(doc, "data"); ok {
		if s, ok := coerceString(data["id"]); ok {
			return s, true
		}
	}
	return "", false
}

// extractPaymentKey locates the payment key token: "token", then
// "payment_key", then "data.token".
func extractPaymentKey(doc map[string]any) (string, bool) {
	if s, ok := coerceString(doc["token"]); ok {
		return s, true
	}
	if s, ok := coerceString(doc["payment_key"]); ok {
		return s, true
	}
	if data, ok := nestedObject(doc, "data"); ok {
		if s, ok := coerceString(data["token"]); ok {
			return s, true
		}
	}
	return "", false
}

// mapStatus maps the gateway's outcome field onto a canonical Status.
// A boolean success:true is authoritative. Otherwise the "status" (or
// "message") string decides: paid/captured/success mean Paid regardless of
// case, pending stays Pending, any other non-empty word is a failure, and a
// document saying nothing at all is Unknown.
func mapStatus(doc map[string]any) Status {
	success, hasSuccess := doc["success"].(bool)
	if hasSuccess && success {
		return StatusPaid
	}

	s, _ := coerceString(doc["status"])
	if s == "" {
		s, _ = coerceString(doc["message"])
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid", "captured", "success":
		return StatusPaid
	case "pending":
		return StatusPending
	case "":
		if hasSuccess {
			return StatusFailed
		}
		return StatusUnknown
	default:
		return StatusFailed
	}
}

// extractAmountCents reads the integer minor-unit amount from "amount_cents".
func extractAmountCents(doc map[string]any) (int64, bool) {
	switch v := doc["amount_cents"].(type) {
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func nestedObject(doc map[string]any, key string) (map[string]any, bool) {
	obj, ok := doc[key].(map[string]any)
	return obj, ok
}

// coerceString accepts the string and numeric encodings the gateway uses
// interchangeably for identifiers and tokens.
func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return "", false
		}
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}
