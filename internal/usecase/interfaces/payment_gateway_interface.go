package interfaces

import (
	"context"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/infrastructure/payments"
)

// IPaymentGateway abstracts the Paymob Accept client for the use case layer.
//
// Every operation is total: failures come back inside the result value, never
// as an error, so the use case decides what each failure means for the
// Payment record.
type IPaymentGateway interface {
	CreateOrder(ctx context.Context, req payments.OrderCreationRequest) payments.OrderCreationResult
	VerifyCallback(ctx context.Context, n payments.CallbackNotification) payments.VerificationResult
	Refund(ctx context.Context, req payments.RefundRequest) payments.RefundResult
	GetOrderStatus(ctx context.Context, gatewayOrderID string) payments.OrderStatusResult
}
