package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rovi1013/coap-telegram-gateway/internal/biz/repo"
	"github.com/rovi1013/coap-telegram-gateway/internal/biz/usecase"
	"github.com/rovi1013/coap-telegram-gateway/internal/metrics"
)

// Notifier delivers round notifications back through the chat API.
// Dispatch is fire-and-forget: each delivery runs in its own goroutine
// with its own timeout, and a failed delivery is only logged. It never
// reaches the round's result.
type Notifier struct {
	messages    repo.MessageRepo
	sendTimeout time.Duration
}

// NewNotifier creates a notification dispatcher
func NewNotifier(messages repo.MessageRepo) *Notifier {
	return &Notifier{
		messages:    messages,
		sendTimeout: 10 * time.Second,
	}
}

// Dispatch sends every queued notification concurrently
func (n *Notifier) Dispatch(notes []usecase.Notification) {
	for _, note := range notes {
		go n.send(note)
	}
}

func (n *Notifier) send(note usecase.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), n.sendTimeout)
	defer cancel()

	if err := n.messages.SendText(ctx, note.SenderID, note.Text); err != nil {
		fmt.Printf("[Notifier] Failed to notify %s: %v\n", note.SenderID, err)
		metrics.Notifications.WithLabelValues("failed").Inc()
		return
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
}
