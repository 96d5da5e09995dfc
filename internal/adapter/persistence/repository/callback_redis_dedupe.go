package repository

import (
	"context"
	"time"

	"github.com/ahmedsindbad/DevPioneers-sub000/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

// callbackKeyTTL keeps processed transaction ids long enough to cover the
// gateway's webhook redelivery window.
const callbackKeyTTL = 48 * time.Hour

// CallbackRedisDedupe suppresses webhook replays with a SET NX marker per
// gateway transaction id.

type CallbackRedisDedupe struct {
	client *redis.Client
}

var _ interfaces.ICallbackDedupe = (*CallbackRedisDedupe)(nil)

func NewCallbackRedisDedupe(client *redis.Client) *CallbackRedisDedupe {
	return &CallbackRedisDedupe{client: client}
}

func (d *CallbackRedisDedupe) MarkProcessed(ctx context.Context, gatewayTransactionID string) (bool, error) {
	return d.client.SetNX(ctx, "callback:"+gatewayTransactionID, "1", callbackKeyTTL).Result()
}
