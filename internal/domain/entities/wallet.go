package entities

import "time"

// Wallet is the per-user balance credited after a verified payment.
//
// Storage model (DynamoDB): PK user_id. Credits are atomic ADD updates, so
// concurrent callbacks for different payments cannot lose money.
type Wallet struct {
	UserID    string    `json:"user_id"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}
