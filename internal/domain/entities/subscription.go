package entities

import "time"

// Subscription links a user to the plan activated by a paid payment.
//
// Storage model (DynamoDB): PK user_id. Activation overwrites the previous
// subscription item; history lives on the payment records.
type Subscription struct {
	UserID      string    `json:"user_id"`
	PlanID      string    `json:"plan_id"`
	PaymentID   string    `json:"payment_id"`
	Status      string    `json:"status"`
	ActivatedAt time.Time `json:"activated_at"`
}
