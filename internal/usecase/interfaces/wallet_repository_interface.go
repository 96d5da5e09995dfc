package interfaces

import (
	"context"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/domain/entities"
)

// IWalletRepository abstracts DynamoDB persistence for Wallet.
//
// Credit must be atomic: the use case calls it at most once per verified
// payment, and concurrent credits for different payments must both land.

type IWalletRepository interface {
	Credit(ctx context.Context, userID string, amount float64) (entities.Wallet, error)
}
