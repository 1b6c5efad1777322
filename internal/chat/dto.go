package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
)

// ConversationDTO is the transport shape for chat threads.
type ConversationDTO struct {
	ID            uuid.UUID  `json:"id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	ProviderID    uuid.UUID  `json:"provider_id"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int64      `json:"unread_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MessageDTO is the transport shape for chat messages.
type MessageDTO struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Body           string    `json:"body"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// StartRequest opens (or returns) the thread with a provider.
type StartRequest struct {
	ProviderID uuid.UUID `json:"provider_id" validate:"required"`
}

// SendRequest carries a message body.
type SendRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

// MessageListResult is a cursor page of messages.
type MessageListResult struct {
	Messages   []MessageDTO `json:"messages"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

func ConversationFromModel(c *models.Conversation, unread int64) *ConversationDTO {
	if c == nil {
		return nil
	}
	return &ConversationDTO{
		ID:            c.ID,
		CustomerID:    c.CustomerID,
		ProviderID:    c.ProviderID,
		LastMessageAt: c.LastMessageAt,
		UnreadCount:   unread,
		CreatedAt:     c.CreatedAt,
	}
}

func MessageFromModel(m *models.ChatMessage) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}
