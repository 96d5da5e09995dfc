package response

import (
	"time"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/domain/entities"
)

type PaymentResponse struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	PlanID               string     `json:"plan_id,omitempty"`
	Amount               float64    `json:"amount"`
	Currency             string     `json:"currency,omitempty"`
	GatewayOrderID       string     `json:"gateway_order_id,omitempty"`
	GatewayTransactionID string     `json:"gateway_transaction_id,omitempty"`
	RefundID             string     `json:"refund_id,omitempty"`
	Status               string     `json:"status"`
	FailureReason        string     `json:"failure_reason,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`

	// RedirectURL is only set right after checkout creation.
	RedirectURL string `json:"redirect_url,omitempty"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                   p.ID,
		UserID:               p.UserID,
		PlanID:               p.PlanID,
		Amount:               p.Amount,
		Currency:             p.Currency,
		GatewayOrderID:       p.GatewayOrderID,
		GatewayTransactionID: p.GatewayTransactionID,
		RefundID:             p.RefundID,
		Status:               string(p.Status),
		FailureReason:        p.FailureReason,
		CreatedAt:            p.CreatedAt,
		CompletedAt:          p.CompletedAt,
	}
}

func FromPaymentWithRedirect(p entities.Payment, redirectURL string) PaymentResponse {
	res := FromPayment(p)
	res.RedirectURL = redirectURL
	return res
}
