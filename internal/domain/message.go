package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxMessageLength = 4000

type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversationId"`
	SenderID       uuid.UUID `json:"senderId"`
	Text           string    `json:"text"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewMessage trims text and rejects empty or oversized messages.
func NewMessage(conversationID, senderID uuid.UUID, text string) (*Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, Invalid("message text cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return nil, Invalid("message text is too long")
	}
	return &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           trimmed,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
