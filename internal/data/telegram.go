package data

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rovi1013/coap-telegram-gateway/internal/biz/domain"
	"github.com/rovi1013/coap-telegram-gateway/internal/infra/telegram"
)

// telegramRepo adapts the Bot API client to the feed and message
// repository interfaces. It tracks the getUpdates offset so each fetch
// returns only updates not yet handed to the engine.
type telegramRepo struct {
	client *telegram.Client

	mu         sync.Mutex
	nextOffset int64
}

// NewTelegramRepo creates the Telegram-backed feed/message repository
func NewTelegramRepo(client *telegram.Client) *telegramRepo {
	return &telegramRepo{client: client}
}

// FetchBatch pulls one batch of new updates and converts them to inbound
// messages. The chat id doubles as the sender id: commands act on the
// chat they arrive from.
func (r *telegramRepo) FetchBatch(ctx context.Context) ([]domain.InboundMessage, error) {
	r.mu.Lock()
	offset := r.nextOffset
	r.mu.Unlock()

	updates, err := r.client.GetUpdates(ctx, offset, 0)
	if err != nil {
		return nil, err
	}

	batch := make([]domain.InboundMessage, 0, len(updates))
	maxID := offset - 1
	for _, upd := range updates {
		if upd.UpdateID > maxID {
			maxID = upd.UpdateID
		}
		if upd.Message == nil {
			continue
		}

		msg := domain.InboundMessage{
			MessageID: strconv.FormatInt(upd.UpdateID, 10),
			SenderID:  strconv.FormatInt(upd.Message.Chat.ID, 10),
			Text:      strings.TrimSpace(upd.Message.Text),
			SentAt:    time.Unix(upd.Message.Date, 0),
		}
		if upd.Message.From != nil {
			msg.SenderName = upd.Message.From.FirstName
		}
		batch = append(batch, msg)
	}

	r.mu.Lock()
	if maxID+1 > r.nextOffset {
		r.nextOffset = maxID + 1
	}
	r.mu.Unlock()

	return batch, nil
}

// SendText sends a text message to one chat
func (r *telegramRepo) SendText(ctx context.Context, chatID, text string) error {
	return r.client.SendMessage(ctx, chatID, text)
}
