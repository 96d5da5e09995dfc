package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/domain/entities"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/infrastructure/payments"
	"github.com/ahmedsindbad/DevPioneers-sub000/internal/usecase/interfaces"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidPaymentInput    = errors.New("invalid payment input")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrPaymentNotRefundable   = errors.New("payment not refundable")
	ErrGatewayOrderFailed     = errors.New("gateway order creation failed")
	ErrCallbackUnverified     = errors.New("callback could not be verified against the gateway")
	ErrCallbackAmountMismatch = errors.New("gateway amount does not match the payment record")
	ErrDuplicateCallback      = errors.New("callback already processed")
	ErrRefundRejected         = errors.New("gateway rejected the refund")
)

// reconcileWorkers bounds the fan-out of gateway status polls.
const reconcileWorkers = 4

// IPaymentUseCase encapsulates the payment lifecycle: initiate a checkout,
// settle gateway callbacks, refund, and reconcile pending payments.
//
// Trust model: a payment is only ever marked paid (and the wallet credited,
// and the subscription activated) after the gateway itself confirmed the
// transaction through a live query. Callback payloads are never trusted.

type IPaymentUseCase interface {
	InitiatePayment(ctx context.Context, userID, planID string, amount float64, currency string) (entities.Payment, string, error)
	ConfirmCallback(ctx context.Context, gatewayTransactionID string) (entities.Payment, error)
	RefundPayment(ctx context.Context, paymentID string, amount float64, reason string) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	ReconcilePending(ctx context.Context) (int, error)
}

type PaymentUseCase struct {
	repo     interfaces.IPaymentRepository
	wallets  interfaces.IWalletRepository
	subs     interfaces.ISubscriptionRepository
	gateway  interfaces.IPaymentGateway
	dedupe   interfaces.ICallbackDedupe
	newID    func() string
	now      func() time.Time
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(
	repo interfaces.IPaymentRepository,
	wallets interfaces.IWalletRepository,
	subs interfaces.ISubscriptionRepository,
	gateway interfaces.IPaymentGateway,
	dedupe interfaces.ICallbackDedupe,
) *PaymentUseCase {
	return &PaymentUseCase{
		repo:    repo,
		wallets: wallets,
		subs:    subs,
		gateway: gateway,
		dedupe:  dedupe,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// InitiatePayment registers a charge with the gateway and persists the
// payment record. On success the returned string is the checkout redirect
// URL. On gateway failure a failed record is still persisted, keeping any
// partial gateway order id for later reconciliation.
func (u *PaymentUseCase) InitiatePayment(ctx context.Context, userID, planID string, amount float64, currency string) (entities.Payment, string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || amount <= 0 {
		log.Printf("[payment][usecase] initiate rejected user_id=%q amount=%v", userID, amount)
		return entities.Payment{}, "", ErrInvalidPaymentInput
	}
	if u.gateway == nil {
		return entities.Payment{}, "", errors.New("payment gateway not configured")
	}
	if u.repo == nil {
		return entities.Payment{}, "", errors.New("payment repository not configured")
	}

	log.Printf("[payment][usecase] initiate start user_id=%s plan_id=%s amount=%.2f", userID, planID, amount)
	res := u.gateway.CreateOrder(ctx, payments.OrderCreationRequest{
		PayerID:  userID,
		Amount:   amount,
		Currency: currency,
	})

	now := u.now().UTC()
	p := entities.Payment{
		ID:              u.newID(),
		UserID:          userID,
		PlanID:          planID,
		Amount:          amount,
		Currency:        currency,
		MerchantOrderID: res.MerchantOrderID,
		GatewayOrderID:  res.GatewayOrderID,
		Status:          entities.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if !res.Success {
		p.Status = entities.PaymentStatusFailed
		p.FailureReason = res.ErrorMessage
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		log.Printf("[payment][usecase] payment create failed user_id=%s err=%v", userID, err)
		return entities.Payment{}, "", err
	}
	if !res.Success {
		log.Printf("[payment][usecase] initiate failed at gateway payment_id=%s gateway_order_id=%q reason=%s", created.ID, res.GatewayOrderID, res.ErrorMessage)
		return created, "", fmt.Errorf("%w: %s", ErrGatewayOrderFailed, res.ErrorMessage)
	}

	log.Printf("[payment][usecase] initiate success payment_id=%s gateway_order_id=%s", created.ID, created.GatewayOrderID)
	return created, res.RedirectURL, nil
}

// ConfirmCallback settles an inbound gateway notification. Only the
// transaction id is taken from the notification; the verdict comes from
// re-querying the gateway. Replays are suppressed through the dedupe store
// before any state changes.
func (u *PaymentUseCase) ConfirmCallback(ctx context.Context, gatewayTransactionID string) (entities.Payment, error) {
	txnID := strings.TrimSpace(gatewayTransactionID)
	if txnID == "" {
		return entities.Payment{}, ErrInvalidPaymentInput
	}

	if u.dedupe != nil {
		first, err := u.dedupe.MarkProcessed(ctx, txnID)
		if err != nil {
			log.Printf("[payment][usecase] callback dedupe unavailable txn_id=%s err=%v", txnID, err)
			return entities.Payment{}, err
		}
		if !first {
			log.Printf("[payment][usecase] callback replay suppressed txn_id=%s", txnID)
			return entities.Payment{}, ErrDuplicateCallback
		}
	}

	v := u.gateway.VerifyCallback(ctx, payments.CallbackNotification{GatewayTransactionID: txnID})
	if !v.Verified {
		log.Printf("[payment][usecase] callback unverified txn_id=%s reason=%s", txnID, v.ErrorMessage)
		return entities.Payment{}, ErrCallbackUnverified
	}

	p, err := u.repo.GetByGatewayOrderID(ctx, v.GatewayOrderID)
	if err != nil {
		log.Printf("[payment][usecase] payment lookup failed gateway_order_id=%s err=%v", v.GatewayOrderID, err)
		return entities.Payment{}, err
	}
	if p.ID == "" {
		log.Printf("[payment][usecase] no payment for gateway order gateway_order_id=%q txn_id=%s", v.GatewayOrderID, txnID)
		return entities.Payment{}, ErrPaymentNotFound
	}
	if p.Status == entities.PaymentStatusPaid {
		// Already settled by reconciliation; nothing left to do.
		log.Printf("[payment][usecase] payment already settled payment_id=%s", p.ID)
		return p, nil
	}

	if !v.Succeeded {
		p.Status = entities.PaymentStatusFailed
		p.GatewayTransactionID = v.GatewayTransactionID
		p.FailureReason = "gateway reports transaction not paid"
		p.UpdatedAt = u.now().UTC()
		updated, err := u.repo.Update(ctx, p)
		if err != nil {
			return entities.Payment{}, err
		}
		log.Printf("[payment][usecase] callback settled as failed payment_id=%s txn_id=%s", p.ID, v.GatewayTransactionID)
		return updated, nil
	}

	// The gateway says paid; make sure it paid the amount we asked for.
	if v.AmountKnown && math.Abs(v.Amount-p.Amount) >= 0.005 {
		log.Printf("[payment][usecase] amount mismatch payment_id=%s expected=%.2f gateway=%.2f", p.ID, p.Amount, v.Amount)
		return entities.Payment{}, ErrCallbackAmountMismatch
	}

	now := u.now().UTC()
	p.Status = entities.PaymentStatusPaid
	p.GatewayTransactionID = v.GatewayTransactionID
	p.FailureReason = ""
	p.UpdatedAt = now
	p.CompletedAt = &now
	updated, err := u.repo.Update(ctx, p)
	if err != nil {
		return entities.Payment{}, err
	}

	if err := u.settleBenefits(ctx, updated); err != nil {
		return updated, err
	}

	log.Printf("[payment][usecase] callback settled as paid payment_id=%s txn_id=%s", updated.ID, updated.GatewayTransactionID)
	return updated, nil
}

// settleBenefits credits the wallet and activates the plan for a payment that
// was just independently verified as paid.
func (u *PaymentUseCase) settleBenefits(ctx context.Context, p entities.Payment) error {
	if u.wallets != nil {
		if _, err := u.wallets.Credit(ctx, p.UserID, p.Amount); err != nil {
			log.Printf("[payment][usecase] wallet credit failed payment_id=%s user_id=%s err=%v", p.ID, p.UserID, err)
			return err
		}
	}
	if u.subs != nil && p.PlanID != "" {
		if err := u.subs.Activate(ctx, p.UserID, p.PlanID, p.ID); err != nil {
			log.Printf("[payment][usecase] subscription activation failed payment_id=%s plan_id=%s err=%v", p.ID, p.PlanID, err)
			return err
		}
	}
	return nil
}

// RefundPayment refunds a paid payment through the gateway and records the
// outcome.
func (u *PaymentUseCase) RefundPayment(ctx context.Context, paymentID string, amount float64, reason string) (entities.Payment, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" || amount <= 0 {
		return entities.Payment{}, ErrInvalidPaymentInput
	}

	p, err := u.repo.GetByID(ctx, paymentID)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	if p.Status != entities.PaymentStatusPaid || p.GatewayTransactionID == "" {
		log.Printf("[payment][usecase] refund rejected payment_id=%s status=%s", p.ID, p.Status)
		return entities.Payment{}, ErrPaymentNotRefundable
	}
	if amount > p.Amount {
		return entities.Payment{}, ErrInvalidPaymentInput
	}

	res := u.gateway.Refund(ctx, payments.RefundRequest{
		GatewayTransactionID: p.GatewayTransactionID,
		Amount:               amount,
		Reason:               reason,
	})
	if !res.Success {
		log.Printf("[payment][usecase] refund failed payment_id=%s reason=%s", p.ID, res.ErrorMessage)
		return entities.Payment{}, fmt.Errorf("%w: %s", ErrRefundRejected, res.ErrorMessage)
	}

	p.Status = entities.PaymentStatusRefunded
	p.RefundID = res.RefundID
	p.UpdatedAt = u.now().UTC()
	updated, err := u.repo.Update(ctx, p)
	if err != nil {
		return entities.Payment{}, err
	}
	log.Printf("[payment][usecase] refund success payment_id=%s refund_id=%q", updated.ID, updated.RefundID)
	return updated, nil
}

func (u *PaymentUseCase) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Payment{}, ErrInvalidPaymentInput
	}
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

// ReconcilePending polls the gateway for every pending payment and settles
// the ones the gateway reports as decided. A cancelled or failed initiate may
// have left a gateway order behind; this is where it gets picked up.
func (u *PaymentUseCase) ReconcilePending(ctx context.Context) (int, error) {
	pending, err := u.repo.ListByStatus(ctx, entities.PaymentStatusPending)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	log.Printf("[payment][usecase] reconcile start pending=%d", len(pending))

	var settled atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileWorkers)
	for _, p := range pending {
		g.Go(func() error {
			if p.GatewayOrderID == "" {
				return nil
			}
			st := u.gateway.GetOrderStatus(gctx, p.GatewayOrderID)
			switch st.Status {
			case payments.StatusPaid:
				if st.AmountKnown && math.Abs(st.Amount-p.Amount) >= 0.005 {
					log.Printf("[payment][usecase] reconcile amount mismatch payment_id=%s expected=%.2f gateway=%.2f", p.ID, p.Amount, st.Amount)
					return nil
				}
				now := u.now().UTC()
				p.Status = entities.PaymentStatusPaid
				p.UpdatedAt = now
				if st.CompletedAt != nil {
					p.CompletedAt = st.CompletedAt
				} else {
					p.CompletedAt = &now
				}
				updated, err := u.repo.Update(gctx, p)
				if err != nil {
					return err
				}
				if err := u.settleBenefits(gctx, updated); err != nil {
					return err
				}
				settled.Add(1)
				log.Printf("[payment][usecase] reconciled as paid payment_id=%s", p.ID)
			case payments.StatusFailed:
				p.Status = entities.PaymentStatusFailed
				p.FailureReason = "gateway reports transaction failed"
				p.UpdatedAt = u.now().UTC()
				if _, err := u.repo.Update(gctx, p); err != nil {
					return err
				}
				settled.Add(1)
				log.Printf("[payment][usecase] reconciled as failed payment_id=%s", p.ID)
			default:
				// Pending or unknown: leave it for the next pass.
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(settled.Load()), err
	}
	log.Printf("[payment][usecase] reconcile done settled=%d", settled.Load())
	return int(settled.Load()), nil
}
