package models

import (
	"time"

	"github.com/google/uuid"
)

// UniqueConversationConstraint names the unique index keeping one
// conversation per (customer, provider) pair.
const UniqueConversationConstraint = "uq_conversations_customer_provider"

// Conversation is the single chat thread between a customer and a provider.
type Conversation struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID  `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:uq_conversations_customer_provider"`
	ProviderID    uuid.UUID  `gorm:"column:provider_id;type:uuid;not null;uniqueIndex:uq_conversations_customer_provider"`
	LastMessageAt *time.Time `gorm:"column:last_message_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}
