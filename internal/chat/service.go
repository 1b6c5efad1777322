package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
	"github.com/fundihub/fundihub-backend/pkg/logger"
	"github.com/fundihub/fundihub-backend/pkg/outbox"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// Actor identifies a chat participant.
type Actor struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	ProviderID *uuid.UUID
}

// publisher fans a persisted message out to live subscribers.
type publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	ChatChannel(conversationID string) string
}

// Service exposes the chat thread and message operations.
type Service interface {
	Start(ctx context.Context, customerID uuid.UUID, req StartRequest) (*ConversationDTO, error)
	ListConversations(ctx context.Context, actor Actor) ([]ConversationDTO, error)
	Messages(ctx context.Context, actor Actor, conversationID uuid.UUID, params pagination.Params) (*MessageListResult, error)
	Send(ctx context.Context, actor Actor, conversationID uuid.UUID, req SendRequest) (*MessageDTO, error)
	MarkRead(ctx context.Context, actor Actor, conversationID uuid.UUID) error
	Authorize(ctx context.Context, actor Actor, conversationID uuid.UUID) error
}

type service struct {
	db     *dbpkg.Client
	outbox *outbox.Service
	pub    publisher
	logg   *logger.Logger
}

// ServiceParams wires chat dependencies.
type ServiceParams struct {
	DB        *dbpkg.Client
	Outbox    *outbox.Service
	Publisher publisher
	Logger    *logger.Logger
}

// NewService constructs a chat service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("publisher required")
	}
	return &service{db: params.DB, outbox: params.Outbox, pub: params.Publisher, logg: params.Logger}, nil
}

// Start opens the thread with a provider, or returns the existing one.
func (s *service) Start(ctx context.Context, customerID uuid.UUID, req StartRequest) (*ConversationDTO, error) {
	repo := NewRepository(s.db.DB())
	conversation, err := repo.EnsureConversation(ctx, customerID, req.ProviderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open conversation")
	}
	unread, err := repo.UnreadCount(ctx, conversation.ID, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread")
	}
	return ConversationFromModel(conversation, unread), nil
}

func (s *service) ListConversations(ctx context.Context, actor Actor) ([]ConversationDTO, error) {
	repo := NewRepository(s.db.DB())

	var rows []models.Conversation
	var err error
	switch {
	case actor.Role == enums.UserRoleServiceProvider && actor.ProviderID != nil:
		rows, err = repo.ListConversationsForProvider(ctx, *actor.ProviderID)
	default:
		rows, err = repo.ListConversationsForCustomer(ctx, actor.UserID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}

	result := make([]ConversationDTO, 0, len(rows))
	for i := range rows {
		unread, err := repo.UnreadCount(ctx, rows[i].ID, actor.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread")
		}
		result = append(result, *ConversationFromModel(&rows[i], unread))
	}
	return result, nil
}

func (s *service) Messages(ctx context.Context, actor Actor, conversationID uuid.UUID, params pagination.Params) (*MessageListResult, error) {
	if err := s.Authorize(ctx, actor, conversationID); err != nil {
		return nil, err
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := NewRepository(s.db.DB()).ListMessages(ctx, conversationID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}

	result := &MessageListResult{Messages: make([]MessageDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			break
		}
		result.Messages = append(result.Messages, *MessageFromModel(&rows[i]))
	}
	if len(rows) > limit {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

// Send persists a message, queues the domain event, and fans it out to live
// subscribers. Fan-out is best effort: a Redis hiccup must not fail the send.
func (s *service) Send(ctx context.Context, actor Actor, conversationID uuid.UUID, req SendRequest) (*MessageDTO, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is empty")
	}

	var dto *MessageDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		conversation, err := repo.FindConversationByID(ctx, conversationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup conversation")
		}
		if err := authorizeParticipant(conversation, actor); err != nil {
			return err
		}

		message := &models.ChatMessage{
			ConversationID: conversation.ID,
			SenderID:       actor.UserID,
			Body:           body,
		}
		created, err := repo.CreateMessage(ctx, message)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventChatMessageSent,
			AggregateType: enums.AggregateChatMessage,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: actor.UserID, ProviderID: actor.ProviderID, Role: actor.Role.String()},
			Data: map[string]any{
				"conversation_id": conversation.ID,
				"message_id":      created.ID,
				"sender_id":       created.SenderID,
				"customer_id":     conversation.CustomerID,
				"provider_id":     conversation.ProviderID,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue event")
		}

		dto = MessageFromModel(created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(dto); err == nil {
		channel := s.pub.ChatChannel(conversationID.String())
		if err := s.pub.Publish(ctx, channel, payload); err != nil && s.logg != nil {
			s.logg.Error(ctx, "chat fan-out failed", err)
		}
	}
	return dto, nil
}

func (s *service) MarkRead(ctx context.Context, actor Actor, conversationID uuid.UUID) error {
	if err := s.Authorize(ctx, actor, conversationID); err != nil {
		return err
	}
	if err := NewRepository(s.db.DB()).MarkRead(ctx, conversationID, actor.UserID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark read")
	}
	return nil
}

// Authorize verifies the actor participates in the conversation.
func (s *service) Authorize(ctx context.Context, actor Actor, conversationID uuid.UUID) error {
	conversation, err := NewRepository(s.db.DB()).FindConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup conversation")
	}
	return authorizeParticipant(conversation, actor)
}

func authorizeParticipant(conversation *models.Conversation, actor Actor) error {
	if actor.Role == enums.UserRoleAdmin {
		return nil
	}
	if conversation.CustomerID == actor.UserID {
		return nil
	}
	if actor.ProviderID != nil && conversation.ProviderID == *actor.ProviderID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not a participant in this conversation")
}
