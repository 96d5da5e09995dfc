package interfaces

import "context"

// ICallbackDedupe suppresses webhook replays. MarkProcessed reports whether
// this transaction id is seen for the first time.

type ICallbackDedupe interface {
	MarkProcessed(ctx context.Context, gatewayTransactionID string) (first bool, err error)
}
