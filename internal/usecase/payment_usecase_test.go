package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/domain/entities"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/infrastructure/payments"
	mock_interfaces "github.com/ahmedsindbad/DevPioneers-sub000/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestPaymentUseCase_InitiatePayment_Validations(t *testing.T) {
	t.Run("empty user id", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil, nil, nil)
		_, _, err := uc.InitiatePayment(context.Background(), "  ", "plan-1", 100, "EGP")
		if !errors.Is(err, ErrInvalidPaymentInput) {
			t.Fatalf("expected ErrInvalidPaymentInput, got %v", err)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil, nil, nil)
		_, _, err := uc.InitiatePayment(context.Background(), "user-1", "plan-1", 0, "EGP")
		if !errors.Is(err, ErrInvalidPaymentInput) {
			t.Fatalf("expected ErrInvalidPaymentInput, got %v", err)
		}
	})

	t.Run("gateway not configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, nil, nil)

		_, _, err := uc.InitiatePayment(context.Background(), "user-1", "plan-1", 100, "EGP")
		if err == nil || err.Error() != "payment gateway not configured" {
			t.Fatalf("expected gateway not configured error, got %v", err)
		}
	})

	t.Run("repository not configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(nil, nil, nil, gateway, nil)

		_, _, err := uc.InitiatePayment(context.Background(), "user-1", "plan-1", 100, "EGP")
		if err == nil || err.Error() != "payment repository not configured" {
			t.Fatalf("expected repository not configured error, got %v", err)
		}
	})
}

func TestPaymentUseCase_InitiatePayment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, gateway, nil)
		uc.newID = func() string { return "pay-1" }

		gateway.EXPECT().CreateOrder(gomock.Any(), payments.OrderCreationRequest{
			PayerID:  "user-1",
			Amount:   249.99,
			Currency: "EGP",
		}).Return(payments.OrderCreationResult{
			Success:         true,
			GatewayOrderID:  "12345",
			MerchantOrderID: "mo-1",
			RedirectURL:     "https://accept.paymob.com/api/acceptance/iframes/77?payment_token=tok",
		})
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.ID != "pay-1" || p.GatewayOrderID != "12345" || p.MerchantOrderID != "mo-1" {
					t.Fatalf("unexpected payment persisted: %+v", p)
				}
				if p.Status != entities.PaymentStatusPending {
					t.Fatalf("expected pending status, got %s", p.Status)
				}
				return p, nil
			})

		created, redirect, err := uc.InitiatePayment(context.Background(), "user-1", "plan-1", 249.99, "EGP")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.ID != "pay-1" {
			t.Fatalf("unexpected payment id %q", created.ID)
		}
		if redirect == "" {
			t.Fatal("expected a redirect URL")
		}
	})

	t.Run("gateway failure persists a failed record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, gateway, nil)

		gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(payments.OrderCreationResult{
			Success:        false,
			GatewayOrderID: "12345",
			ErrorMessage:   "payment key request failed",
		})
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.Status != entities.PaymentStatusFailed {
					t.Fatalf("expected failed status, got %s", p.Status)
				}
				if p.GatewayOrderID != "12345" {
					t.Fatalf("expected partial gateway order id kept, got %q", p.GatewayOrderID)
				}
				return p, nil
			})

		_, _, err := uc.InitiatePayment(context.Background(), "user-1", "plan-1", 100, "EGP")
		if !errors.Is(err, ErrGatewayOrderFailed) {
			t.Fatalf("expected ErrGatewayOrderFailed, got %v", err)
		}
	})

	t.Run("repository create error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, gateway, nil)

		gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(payments.OrderCreationResult{Success: true, GatewayOrderID: "1"})
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Payment{}, errors.New("db"))

		_, _, err := uc.InitiatePayment(context.Background(), "user-1", "", 100, "EGP")
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestPaymentUseCase_ConfirmCallback(t *testing.T) {
	t.Run("empty transaction id", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil, nil, nil)
		_, err := uc.ConfirmCallback(context.Background(), " ")
		if !errors.Is(err, ErrInvalidPaymentInput) {
			t.Fatalf("expected ErrInvalidPaymentInput, got %v", err)
		}
	})

	t.Run("replay suppressed before any gateway call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		dedupe := mock_interfaces.NewMockICallbackDedupe(ctrl)
		uc := NewPaymentUseCase(nil, nil, nil, gateway, dedupe)

		dedupe.EXPECT().MarkProcessed(gomock.Any(), "txn-1").Return(false, nil)

		_, err := uc.ConfirmCallback(context.Background(), "txn-1")
		if !errors.Is(err, ErrDuplicateCallback) {
			t.Fatalf("expected ErrDuplicateCallback, got %v", err)
		}
	})

	t.Run("dedupe store unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		dedupe := mock_interfaces.NewMockICallbackDedupe(ctrl)
		uc := NewPaymentUseCase(nil, nil, nil, gateway, dedupe)

		dedupe.EXPECT().MarkProcessed(gomock.Any(), "txn-1").Return(false, errors.New("redis down"))

		_, err := uc.ConfirmCallback(context.Background(), "txn-1")
		if err == nil || err.Error() != "redis down" {
			t.Fatalf("expected redis down error, got %v", err)
		}
	})

	t.Run("unverified notification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(nil, nil, nil, gateway, nil)

		gateway.EXPECT().VerifyCallback(gomock.Any(), payments.CallbackNotification{GatewayTransactionID: "txn-1"}).
			Return(payments.VerificationResult{Verified: false, ErrorMessage: "status 404"})

		_, err := uc.ConfirmCallback(context.Background(), "txn-1")
		if !errors.Is(err, ErrCallbackUnverified) {
			t.Fatalf("expected ErrCallbackUnverified, got %v", err)
		}
	})

	t.Run("no payment for gateway order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, gateway, nil)

		gateway.EXPECT().VerifyCallback(gomock.Any(), gomock.Any()).
			Return(payments.VerificationResult{Verified: true, Succeeded: true, GatewayTransactionID: "txn-1", GatewayOrderID: "ord-9"})
		repo.EXPECT().GetByGatewayOrderID(gomock.Any(), "ord-9").Return(entities.Payment{}, nil)

		_, err := uc.ConfirmCallback(context.Background(), "txn-1")
		if !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
	})

	t.Run("already settled payment is returned untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		wallets := mock_interfaces.NewMockIWalletRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, wallets, nil, gateway, nil)

		gateway.EXPECT().VerifyCallback(gomock.Any(), gomock.Any()).
			Return(payments.VerificationResult{Verified: true, Succeeded: true, GatewayTransactionID: "txn-1", GatewayOrderID: "ord-1"})
		repo.EXPECT().GetByGatewayOrderID(gomock.Any(), "ord-1").
			Return(entities.Payment{ID: "pay-1", UserID: "user-1", Amount: 100, Status: entities.PaymentStatusPaid}, nil)

		p, err := uc.ConfirmCallback(context.Background(), "txn-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ID != "pay-1" || p.Status != entities.PaymentStatusPaid {
			t.Fatalf("unexpected payment: %+v", p)
		}
	})

	t.Run("gateway verdict failed settles the record as failed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, gateway, nil)

		gateway.EXPECT().VerifyCallback(gomock.Any(), gomock.Any()).
			Return(payments.VerificationResult{Verified: true, Succeeded: false, GatewayTransactionID: "txn-1", GatewayOrderID: "ord-1"})
		repo.EXPECT().GetByGatewayOrderID(gomock.Any(), "ord-1").
			Return(entities.Payment{ID: "pay-1", UserID: "user-1", Amount: 100, Status: entities.PaymentStatusPending}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.Status != entities.PaymentStatusFailed {
					t.Fatalf("expected failed status, got %s", p.Status)
				}
				if p.GatewayTransactionID != "txn-1" {
					t.Fatalf("expected transaction id recorded, got %q", p.GatewayTransactionID)
				}
				return p, nil
			})

		p, err := uc.ConfirmCallback(context.Background(), "txn-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusFailed {
			t.Fatalf("expected failed status, got %s", p.Status)
		}
	})

	t.Run("amount mismatch refuses to settle", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, gateway, nil)

		gateway.EXPECT().VerifyCallback(gomock.Any(), gomock.Any()).
			Return(payments.VerificationResult{Verified: true, Succeeded: true, GatewayTransactionID: "txn-1", GatewayOrderID: "ord-1", Amount: 99, AmountKnown: true})
		repo.EXPECT().GetByGatewayOrderID(gomock.Any(), "ord-1").
			Return(entities.Payment{ID: "pay-1", UserID: "user-1", Amount: 100, Status: entities.PaymentStatusPending}, nil)

		_, err := uc.ConfirmCallback(context.Background(), "txn-1")
		if !errors.Is(err, ErrCallbackAmountMismatch) {
			t.Fatalf("expected ErrCallbackAmountMismatch, got %v", err)
		}
	})

	t.Run("paid verdict credits wallet and activates plan exactly once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		wallets := mock_interfaces.NewMockIWalletRepository(ctrl)
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		dedupe := mock_interfaces.NewMockICallbackDedupe(ctrl)
		uc := NewPaymentUseCase(repo, wallets, subs, gateway, dedupe)
		fixed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
		uc.now = func() time.Time { return fixed }

		dedupe.EXPECT().MarkProcessed(gomock.Any(), "txn-1").Return(true, nil)
		gateway.EXPECT().VerifyCallback(gomock.Any(), gomock.Any()).
			Return(payments.VerificationResult{Verified: true, Succeeded: true, GatewayTransactionID: "txn-1", GatewayOrderID: "ord-1", Amount: 100, AmountKnown: true})
		repo.EXPECT().GetByGatewayOrderID(gomock.Any(), "ord-1").
			Return(entities.Payment{ID: "pay-1", UserID: "user-1", PlanID: "plan-1", Amount: 100, Status: entities.PaymentStatusPending}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.Status != entities.PaymentStatusPaid {
					t.Fatalf("expected paid status, got %s", p.Status)
				}
				if p.CompletedAt == nil || !p.CompletedAt.Equal(fixed) {
					t.Fatalf("expected completed_at %v, got %v", fixed, p.CompletedAt)
				}
				return p, nil
			})
		wallets.EXPECT().Credit(gomock.Any(), "user-1", 100.0).Return(entities.Wallet{UserID: "user-1", Balance: 100}, nil).Times(1)
		subs.EXPECT().Activate(gomock.Any(), "user-1", "plan-1", "pay-1").Return(nil).Times(1)

		p, err := uc.ConfirmCallback(context.Background(), "txn-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.GatewayTransactionID != "txn-1" {
			t.Fatalf("expected transaction id recorded, got %q", p.GatewayTransactionID)
		}
	})

	t.Run("no plan skips subscription activation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		wallets := mock_interfaces.NewMockIWalletRepository(ctrl)
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, wallets, subs, gateway, nil)

		gateway.EXPECT().VerifyCallback(gomock.Any(), gomock.Any()).
			Return(payments.VerificationResult{Verified: true, Succeeded: true, GatewayTransactionID: "txn-1", GatewayOrderID: "ord-1"})
		repo.EXPECT().GetByGatewayOrderID(gomock.Any(), "ord-1").
			Return(entities.Payment{ID: "pay-1", UserID: "user-1", Amount: 50, Status: entities.PaymentStatusPending}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) { return p, nil })
		wallets.EXPECT().Credit(gomock.Any(), "user-1", 50.0).Return(entities.Wallet{}, nil)

		if _, err := uc.ConfirmCallback(context.Background(), "txn-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("wallet credit error surfaces", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		wallets := mock_interfaces.NewMockIWalletRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, wallets, nil, gateway, nil)

		gateway.EXPECT().VerifyCallback(gomock.Any(), gomock.Any()).
			Return(payments.VerificationResult{Verified: true, Succeeded: true, GatewayTransactionID: "txn-1", GatewayOrderID: "ord-1"})
		repo.EXPECT().GetByGatewayOrderID(gomock.Any(), "ord-1").
			Return(entities.Payment{ID: "pay-1", UserID: "user-1", Amount: 50, Status: entities.PaymentStatusPending}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) { return p, nil })
		wallets.EXPECT().Credit(gomock.Any(), "user-1", 50.0).Return(entities.Wallet{}, errors.New("wallet db"))

		_, err := uc.ConfirmCallback(context.Background(), "txn-1")
		if err == nil || err.Error() != "wallet db" {
			t.Fatalf("expected wallet db error, got %v", err)
		}
	})
}

func TestPaymentUseCase_RefundPayment(t *testing.T) {
	t.Run("invalid input", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil, nil, nil)
		if _, err := uc.RefundPayment(context.Background(), "", 10, ""); !errors.Is(err, ErrInvalidPaymentInput) {
			t.Fatalf("expected ErrInvalidPaymentInput, got %v", err)
		}
		if _, err := uc.RefundPayment(context.Background(), "pay-1", 0, ""); !errors.Is(err, ErrInvalidPaymentInput) {
			t.Fatalf("expected ErrInvalidPaymentInput, got %v", err)
		}
	})

	t.Run("payment not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, nil, nil)

		repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(entities.Payment{}, nil)

		_, err := uc.RefundPayment(context.Background(), "pay-1", 10, "")
		if !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
	})

	t.Run("pending payment is not refundable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, nil, nil)

		repo.EXPECT().GetByID(gomock.Any(), "pay-1").
			Return(entities.Payment{ID: "pay-1", Status: entities.PaymentStatusPending}, nil)

		_, err := uc.RefundPayment(context.Background(), "pay-1", 10, "")
		if !errors.Is(err, ErrPaymentNotRefundable) {
			t.Fatalf("expected ErrPaymentNotRefundable, got %v", err)
		}
	})

	t.Run("amount above paid amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, nil, nil)

		repo.EXPECT().GetByID(gomock.Any(), "pay-1").
			Return(entities.Payment{ID: "pay-1", Amount: 100, Status: entities.PaymentStatusPaid, GatewayTransactionID: "txn-1"}, nil)

		_, err := uc.RefundPayment(context.Background(), "pay-1", 150, "")
		if !errors.Is(err, ErrInvalidPaymentInput) {
			t.Fatalf("expected ErrInvalidPaymentInput, got %v", err)
		}
	})

	t.Run("gateway rejection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, gateway, nil)

		repo.EXPECT().GetByID(gomock.Any(), "pay-1").
			Return(entities.Payment{ID: "pay-1", Amount: 100, Status: entities.PaymentStatusPaid, GatewayTransactionID: "txn-1"}, nil)
		gateway.EXPECT().Refund(gomock.Any(), payments.RefundRequest{GatewayTransactionID: "txn-1", Amount: 100, Reason: "dup"}).
			Return(payments.RefundResult{Success: false, ErrorMessage: "status 400"})

		_, err := uc.RefundPayment(context.Background(), "pay-1", 100, "dup")
		if !errors.Is(err, ErrRefundRejected) {
			t.Fatalf("expected ErrRefundRejected, got %v", err)
		}
	})

	t.Run("success records refund id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, gateway, nil)

		repo.EXPECT().GetByID(gomock.Any(), "pay-1").
			Return(entities.Payment{ID: "pay-1", Amount: 100, Status: entities.PaymentStatusPaid, GatewayTransactionID: "txn-1"}, nil)
		gateway.EXPECT().Refund(gomock.Any(), gomock.Any()).
			Return(payments.RefundResult{Success: true, RefundID: "ref-1"})
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.Status != entities.PaymentStatusRefunded || p.RefundID != "ref-1" {
					t.Fatalf("unexpected refunded payment: %+v", p)
				}
				return p, nil
			})

		p, err := uc.RefundPayment(context.Background(), "pay-1", 100, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusRefunded {
			t.Fatalf("expected refunded status, got %s", p.Status)
		}
	})
}

func TestPaymentUseCase_GetByID(t *testing.T) {
	t.Run("empty id", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil, nil, nil)
		if _, err := uc.GetByID(context.Background(), " "); !errors.Is(err, ErrInvalidPaymentInput) {
			t.Fatalf("expected ErrInvalidPaymentInput, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, nil, nil)

		repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(entities.Payment{}, nil)

		if _, err := uc.GetByID(context.Background(), "pay-1"); !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
	})

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, nil, nil)

		repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(entities.Payment{ID: "pay-1"}, nil)

		p, err := uc.GetByID(context.Background(), "pay-1")
		if err != nil || p.ID != "pay-1" {
			t.Fatalf("unexpected result: %+v err=%v", p, err)
		}
	})
}

func TestPaymentUseCase_ReconcilePending(t *testing.T) {
	t.Run("list error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, nil, nil)

		repo.EXPECT().ListByStatus(gomock.Any(), entities.PaymentStatusPending).Return(nil, errors.New("db"))

		if _, err := uc.ReconcilePending(context.Background()); err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("nothing pending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, nil, nil)

		repo.EXPECT().ListByStatus(gomock.Any(), entities.PaymentStatusPending).Return(nil, nil)

		settled, err := uc.ReconcilePending(context.Background())
		if err != nil || settled != 0 {
			t.Fatalf("expected 0 settled, got %d err=%v", settled, err)
		}
	})

	t.Run("settles decided payments and skips the rest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		wallets := mock_interfaces.NewMockIWalletRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, wallets, nil, gateway, nil)

		completed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		pending := []entities.Payment{
			{ID: "pay-paid", UserID: "user-1", Amount: 100, GatewayOrderID: "ord-paid", Status: entities.PaymentStatusPending},
			{ID: "pay-failed", UserID: "user-2", Amount: 50, GatewayOrderID: "ord-failed", Status: entities.PaymentStatusPending},
			{ID: "pay-wait", UserID: "user-3", Amount: 25, GatewayOrderID: "ord-wait", Status: entities.PaymentStatusPending},
			{ID: "pay-noorder", UserID: "user-4", Amount: 10, Status: entities.PaymentStatusPending},
		}

		repo.EXPECT().ListByStatus(gomock.Any(), entities.PaymentStatusPending).Return(pending, nil)
		gateway.EXPECT().GetOrderStatus(gomock.Any(), "ord-paid").
			Return(payments.OrderStatusResult{Status: payments.StatusPaid, Amount: 100, AmountKnown: true, CompletedAt: &completed})
		gateway.EXPECT().GetOrderStatus(gomock.Any(), "ord-failed").
			Return(payments.OrderStatusResult{Status: payments.StatusFailed})
		gateway.EXPECT().GetOrderStatus(gomock.Any(), "ord-wait").
			Return(payments.OrderStatusResult{Status: payments.StatusPending})

		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				switch p.ID {
				case "pay-paid":
					if p.Status != entities.PaymentStatusPaid {
						t.Errorf("expected pay-paid settled as paid, got %s", p.Status)
					}
					if p.CompletedAt == nil || !p.CompletedAt.Equal(completed) {
						t.Errorf("expected gateway completion time kept, got %v", p.CompletedAt)
					}
				case "pay-failed":
					if p.Status != entities.PaymentStatusFailed {
						t.Errorf("expected pay-failed settled as failed, got %s", p.Status)
					}
				default:
					t.Errorf("unexpected update for %s", p.ID)
				}
				return p, nil
			}).Times(2)
		wallets.EXPECT().Credit(gomock.Any(), "user-1", 100.0).Return(entities.Wallet{}, nil)

		settled, err := uc.ReconcilePending(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settled != 2 {
			t.Fatalf("expected 2 settled, got %d", settled)
		}
	})

	t.Run("amount mismatch leaves the payment pending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, gateway, nil)

		repo.EXPECT().ListByStatus(gomock.Any(), entities.PaymentStatusPending).Return([]entities.Payment{
			{ID: "pay-1", UserID: "user-1", Amount: 100, GatewayOrderID: "ord-1", Status: entities.PaymentStatusPending},
		}, nil)
		gateway.EXPECT().GetOrderStatus(gomock.Any(), "ord-1").
			Return(payments.OrderStatusResult{Status: payments.StatusPaid, Amount: 42, AmountKnown: true})

		settled, err := uc.ReconcilePending(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settled != 0 {
			t.Fatalf("expected 0 settled, got %d", settled)
		}
	})
}
