package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rovi1013/coap-telegram-gateway/internal/biz/domain"
	"github.com/rovi1013/coap-telegram-gateway/internal/biz/repo"
	"github.com/rovi1013/coap-telegram-gateway/internal/metrics"
)

// ErrInvalidPayload marks a relay request the client got wrong:
// unparseable form data, missing text, or no resolvable recipient.
var ErrInvalidPayload = errors.New("invalid relay payload")

// Relay forwards an outbound form-encoded payload from the constrained
// client to the chat API. Payload format (firmware side):
//
//	url=...&token=...&chat_ids=<id>,<id>&text=<message>
//
// url and token are ignored; the gateway holds its own credentials.
// A "recipient" key selects a roster member by display name, or "all"
// fans out to the whole roster.
type Relay struct {
	messages repo.MessageRepo
	registry *domain.SubscriberRegistry
}

// NewRelay creates the outbound relay
func NewRelay(messages repo.MessageRepo, registry *domain.SubscriberRegistry) *Relay {
	return &Relay{messages: messages, registry: registry}
}

// Send parses the payload and delivers the text to every resolved chat.
// At least one successful delivery makes the call succeed.
func (rl *Relay) Send(ctx context.Context, payload string) error {
	values, err := url.ParseQuery(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	text := values.Get("text")
	if text == "" {
		return fmt.Errorf("%w: missing text", ErrInvalidPayload)
	}

	chatIDs, err := rl.resolveRecipients(values)
	if err != nil {
		return err
	}

	sent := 0
	var lastErr error
	for _, chatID := range chatIDs {
		if err := rl.messages.SendText(ctx, chatID, text); err != nil {
			fmt.Printf("[Relay] failed to send to %s: %v\n", chatID, err)
			metrics.RelayErrors.Inc()
			lastErr = err
			continue
		}
		sent++
		metrics.RelayedMessages.Inc()
	}

	if sent == 0 {
		return fmt.Errorf("relay delivered nothing: %w", lastErr)
	}
	return nil
}

func (rl *Relay) resolveRecipients(values url.Values) ([]string, error) {
	var chatIDs []string
	if id := values.Get("chat_id"); id != "" {
		chatIDs = append(chatIDs, id)
	}
	for _, raw := range strings.Split(values.Get("chat_ids"), ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			chatIDs = append(chatIDs, raw)
		}
	}

	switch recipient := values.Get("recipient"); {
	case recipient == "all":
		for _, sub := range rl.registry.Snapshot() {
			chatIDs = append(chatIDs, sub.ID)
		}
	case recipient != "":
		id, ok := rl.registry.IDByName(recipient)
		if !ok {
			return nil, fmt.Errorf("%w: unknown recipient %q", ErrInvalidPayload, recipient)
		}
		chatIDs = append(chatIDs, id)
	}

	if len(chatIDs) == 0 {
		return nil, fmt.Errorf("%w: no recipients", ErrInvalidPayload)
	}
	return chatIDs, nil
}
