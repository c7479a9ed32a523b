package domain

import "time"

// InboundMessage is one update pulled from the chat feed.
type InboundMessage struct {
	MessageID  string // feed-assigned, may be empty
	SenderID   string
	SenderName string
	Text       string
	SentAt     time.Time
}

// IsAfter checks if the message was sent after the specified time
func (m *InboundMessage) IsAfter(t time.Time) bool {
	return m.SentAt.After(t)
}

// IsEmpty checks if the message carries no text
func (m *InboundMessage) IsEmpty() bool {
	return m.Text == ""
}
