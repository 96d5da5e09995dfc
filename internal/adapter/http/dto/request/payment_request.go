package request

// InitiatePaymentRequest is the payload for checkout creation.
//
// Amount is in currency major units; the gateway boundary converts to minor
// units internally.

type InitiatePaymentRequest struct {
	UserID   string  `json:"user_id" binding:"required"`
	PlanID   string  `json:"plan_id"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency"`
}

// RefundPaymentRequest is the payload for the refund route.

type RefundPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason"`
}
