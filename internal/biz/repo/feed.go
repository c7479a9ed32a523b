package repo

import (
	"context"

	"github.com/rovi1013/coap-telegram-gateway/internal/biz/domain"
)

// FeedRepo pulls inbound updates from the upstream chat API.
// Responsible for offset bookkeeping; the engine only consumes batches.
type FeedRepo interface {
	// FetchBatch fetches one bounded batch of new inbound messages,
	// in feed-delivered order
	FetchBatch(ctx context.Context) ([]domain.InboundMessage, error)
}
