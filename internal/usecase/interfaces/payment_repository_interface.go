package interfaces

import (
	"context"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/domain/entities"
)

// IPaymentRepository abstracts DynamoDB persistence for Payment.

type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (entities.Payment, error)
	Update(ctx context.Context, p entities.Payment) (entities.Payment, error)
	ListByStatus(ctx context.Context, status entities.PaymentStatus) ([]entities.Payment, error)
}
