package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// Repository exposes conversation and message persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a chat repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EnsureConversation returns the thread for a (customer, provider) pair,
// creating it on first contact. A create racing another create loses on the
// unique index and falls back to the winner's row.
func (r *Repository) EnsureConversation(ctx context.Context, customerID, providerID uuid.UUID) (*models.Conversation, error) {
	existing, err := r.FindConversation(ctx, customerID, providerID)
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	conversation := &models.Conversation{CustomerID: customerID, ProviderID: providerID}
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		if dbpkg.IsUniqueViolation(err, models.UniqueConversationConstraint) {
			return r.FindConversation(ctx, customerID, providerID)
		}
		return nil, err
	}
	return conversation, nil
}

// FindConversation loads the thread for a (customer, provider) pair.
func (r *Repository) FindConversation(ctx context.Context, customerID, providerID uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.WithContext(ctx).
		First(&conversation, "customer_id = ? AND provider_id = ?", customerID, providerID).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// FindConversationByID loads a thread by its UUID.
func (r *Repository) FindConversationByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListConversationsForCustomer returns the customer's threads, most recent
// activity first.
func (r *Repository) ListConversationsForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Conversation, error) {
	return r.listConversations(ctx, "customer_id = ?", customerID)
}

// ListConversationsForProvider returns the provider's threads.
func (r *Repository) ListConversationsForProvider(ctx context.Context, providerID uuid.UUID) ([]models.Conversation, error) {
	return r.listConversations(ctx, "provider_id = ?", providerID)
}

func (r *Repository) listConversations(ctx context.Context, where string, id uuid.UUID) ([]models.Conversation, error) {
	var rows []models.Conversation
	err := r.db.WithContext(ctx).
		Where(where, id).
		Order("last_message_at DESC NULLS LAST").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateMessage inserts a message and bumps the thread's activity marker.
func (r *Repository) CreateMessage(ctx context.Context, message *models.ChatMessage) (*models.ChatMessage, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", message.ConversationID).
		UpdateColumn("last_message_at", time.Now().UTC()).Error
	if err != nil {
		return nil, err
	}
	return message, nil
}

// ListMessages returns a cursor page of a thread's messages, newest first.
func (r *Repository) ListMessages(ctx context.Context, conversationID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ChatMessage, error) {
	query := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.ChatMessage
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UnreadCount counts messages sent by the other party that the reader has
// not consumed yet.
func (r *Repository) UnreadCount(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("conversation_id = ?", conversationID).
		Where("sender_id <> ?", readerID).
		Where("is_read = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead consumes the read flag on the other party's messages.
func (r *Repository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("conversation_id = ?", conversationID).
		Where("sender_id <> ?", readerID).
		Where("is_read = ?", false).
		UpdateColumn("is_read", true).Error
}
