package worker

import (
	"context"
	"log"
	"time"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/usecase"
)

// Reconciler periodically settles pending payments against the gateway. It
// covers payments whose callbacks were lost and checkouts the payer abandoned
// after the gateway order was created.

type Reconciler struct {
	usecase  usecase.IPaymentUseCase
	interval time.Duration
}

func NewReconciler(uc usecase.IPaymentUseCase, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Reconciler{usecase: uc, interval: interval}
}

// Run blocks until ctx is cancelled, reconciling once per interval.
func (r *Reconciler) Run(ctx context.Context) {
	log.Printf("[reconciler] started interval=%s", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[reconciler] stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Reconciler) runOnce(ctx context.Context) {
	settled, err := r.usecase.ReconcilePending(ctx)
	if err != nil {
		log.Printf("[reconciler] pass failed settled=%d err=%v", settled, err)
		return
	}
	if settled > 0 {
		log.Printf("[reconciler] pass done settled=%d", settled)
	}
}
