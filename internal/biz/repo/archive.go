package repo

import (
	"context"

	"github.com/rovi1013/coap-telegram-gateway/internal/biz/domain"
)

// ArchiveRepo persists a log of processed inbound updates.
// Writes are best-effort: an archive failure never fails a round.
type ArchiveRepo interface {
	// Record stores one processed message and whether it had effect
	Record(ctx context.Context, msg domain.InboundMessage, applied bool) error

	// Recent returns the most recently received messages, newest first
	Recent(ctx context.Context, limit int) ([]domain.InboundMessage, error)

	// Close closes the underlying store
	Close() error
}
