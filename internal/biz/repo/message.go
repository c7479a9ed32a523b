package repo

import "context"

// MessageRepo sends outbound text through the chat API
type MessageRepo interface {
	// SendText sends a text message to one chat
	SendText(ctx context.Context, chatID, text string) error
}
