package entities

import "time"

// PaymentStatus represents the payment lifecycle as seen by this service.
//
// pending means a gateway order exists and we are waiting for the payer (or
// for reconciliation). paid is only ever set after the gateway itself
// confirmed the transaction through a live query.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment is the payment record persisted by this service.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (gateway_order_id-index): gateway_order_id
//   - GSI2 (status-index): status
//
// Amount is in currency major units; minor-unit conversion happens only at
// the gateway boundary.
type Payment struct {
	ID                   string        `json:"id"`
	UserID               string        `json:"user_id"`
	PlanID               string        `json:"plan_id,omitempty"`
	Amount               float64       `json:"amount"`
	Currency             string        `json:"currency"`
	MerchantOrderID      string        `json:"merchant_order_id,omitempty"`
	GatewayOrderID       string        `json:"gateway_order_id,omitempty"`
	GatewayTransactionID string        `json:"gateway_transaction_id,omitempty"`
	RefundID             string        `json:"refund_id,omitempty"`
	Status               PaymentStatus `json:"status"`
	FailureReason        string        `json:"failure_reason,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
	CompletedAt          *time.Time    `json:"completed_at,omitempty"`
}
