package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rovi1013/coap-telegram-gateway/internal/biz/domain"
)

type mockMessages struct {
	sent    map[string][]string // chatID -> texts
	failFor map[string]bool
}

func newMockMessages() *mockMessages {
	return &mockMessages{
		sent:    make(map[string][]string),
		failFor: make(map[string]bool),
	}
}

func (m *mockMessages) SendText(ctx context.Context, chatID, text string) error {
	if m.failFor[chatID] {
		return errors.New("send failed")
	}
	m.sent[chatID] = append(m.sent[chatID], text)
	return nil
}

func TestRelay_SingleChatID(t *testing.T) {
	msgs := newMockMessages()
	rl := NewRelay(msgs, domain.NewSubscriberRegistry())

	err := rl.Send(context.Background(), "chat_id=123&text=hello")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := msgs.sent["123"]; len(got) != 1 || got[0] != "hello" {
		t.Errorf("Expected hello delivered to 123, got %v", got)
	}
}

func TestRelay_ChatIDsFanOut(t *testing.T) {
	msgs := newMockMessages()
	rl := NewRelay(msgs, domain.NewSubscriberRegistry())

	err := rl.Send(context.Background(), "url=x&token=y&chat_ids=1,2,3&text=alert")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, id := range []string{"1", "2", "3"} {
		if len(msgs.sent[id]) != 1 {
			t.Errorf("Expected delivery to %s", id)
		}
	}
}

func TestRelay_MissingText(t *testing.T) {
	rl := NewRelay(newMockMessages(), domain.NewSubscriberRegistry())

	err := rl.Send(context.Background(), "chat_id=123")
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("Expected ErrInvalidPayload, got %v", err)
	}
}

func TestRelay_NoRecipients(t *testing.T) {
	rl := NewRelay(newMockMessages(), domain.NewSubscriberRegistry())

	err := rl.Send(context.Background(), "text=hello")
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("Expected ErrInvalidPayload, got %v", err)
	}
}

func TestRelay_RecipientByName(t *testing.T) {
	registry := domain.NewSubscriberRegistry()
	registry.TryAdd("77", "Ann")
	msgs := newMockMessages()
	rl := NewRelay(msgs, registry)

	err := rl.Send(context.Background(), "recipient=Ann&text=hi")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(msgs.sent["77"]) != 1 {
		t.Error("Expected delivery to Ann's chat")
	}

	err = rl.Send(context.Background(), "recipient=Nobody&text=hi")
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("Expected ErrInvalidPayload for unknown recipient, got %v", err)
	}
}

func TestRelay_RecipientAll(t *testing.T) {
	registry := domain.NewSubscriberRegistry()
	registry.TryAdd("1", "Ann")
	registry.TryAdd("2", "Bob")
	msgs := newMockMessages()
	rl := NewRelay(msgs, registry)

	err := rl.Send(context.Background(), "recipient=all&text=broadcast")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(msgs.sent["1"]) != 1 || len(msgs.sent["2"]) != 1 {
		t.Error("Expected broadcast to the whole roster")
	}
}

func TestRelay_PartialFailureStillSucceeds(t *testing.T) {
	msgs := newMockMessages()
	msgs.failFor["1"] = true
	rl := NewRelay(msgs, domain.NewSubscriberRegistry())

	err := rl.Send(context.Background(), "chat_ids=1,2&text=hi")
	if err != nil {
		t.Fatalf("Expected partial delivery to succeed, got %v", err)
	}

	msgs.failFor["2"] = true
	err = rl.Send(context.Background(), "chat_ids=1,2&text=hi")
	if err == nil {
		t.Error("Expected total delivery failure to error")
	}
}
