package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/adapter/http/handlers/mocks"

	"go.uber.org/mock/gomock"
)

func TestNewReconciler_DefaultInterval(t *testing.T) {
	r := NewReconciler(nil, 0)
	if r.interval != 5*time.Minute {
		t.Fatalf("expected default interval 5m, got %s", r.interval)
	}
}

func TestReconciler_RunOnce(t *testing.T) {
	t.Run("settled pass", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		uc.EXPECT().ReconcilePending(gomock.Any()).Return(2, nil)

		NewReconciler(uc, time.Minute).runOnce(context.Background())
	})

	t.Run("failed pass does not panic", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		uc.EXPECT().ReconcilePending(gomock.Any()).Return(0, errors.New("db"))

		NewReconciler(uc, time.Minute).runOnce(context.Background())
	})
}

func TestReconciler_RunStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIPaymentUseCase(ctrl)
	uc.EXPECT().ReconcilePending(gomock.Any()).Return(0, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewReconciler(uc, 5*time.Millisecond).Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop after cancel")
	}
}
