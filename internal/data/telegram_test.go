package data

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rovi1013/coap-telegram-gateway/internal/infra/telegram"
)

func TestFetchBatch_ConvertsAndAdvancesOffset(t *testing.T) {
	var gotOffsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOffsets = append(gotOffsets, r.URL.Query().Get("offset"))
		if len(gotOffsets) == 1 {
			fmt.Fprint(w, `{"ok":true,"result":[
				{"update_id":10,"message":{"message_id":1,"from":{"id":7,"first_name":"Ann"},"chat":{"id":7},"date":1700000000,"text":"  hello  "}},
				{"update_id":11,"message":null}
			]}`)
			return
		}
		fmt.Fprint(w, `{"ok":true,"result":[]}`)
	}))
	defer srv.Close()

	repo := NewTelegramRepo(telegram.NewClient(srv.URL+"/bot", "TOKEN"))

	batch, err := repo.FetchBatch(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("Expected 1 message (update without message skipped), got %d", len(batch))
	}

	msg := batch[0]
	if msg.MessageID != "10" {
		t.Errorf("Expected message ID '10', got %q", msg.MessageID)
	}
	if msg.SenderID != "7" || msg.SenderName != "Ann" {
		t.Errorf("Unexpected sender %q/%q", msg.SenderID, msg.SenderName)
	}
	if msg.Text != "hello" {
		t.Errorf("Expected trimmed text 'hello', got %q", msg.Text)
	}
	if msg.SentAt.Unix() != 1700000000 {
		t.Errorf("Unexpected SentAt %v", msg.SentAt)
	}

	// The next fetch acknowledges everything below update_id+1
	if _, err := repo.FetchBatch(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(gotOffsets) != 2 || gotOffsets[0] != "" || gotOffsets[1] != "12" {
		t.Errorf("Expected offsets [\"\" \"12\"], got %v", gotOffsets)
	}
}
