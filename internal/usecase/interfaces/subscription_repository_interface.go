package interfaces

import "context"

// ISubscriptionRepository activates the plan a verified payment paid for.

type ISubscriptionRepository interface {
	Activate(ctx context.Context, userID, planID, paymentID string) error
}
