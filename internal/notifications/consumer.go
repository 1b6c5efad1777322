package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	"github.com/fundihub/fundihub-backend/pkg/logger"
	"github.com/fundihub/fundihub-backend/pkg/outbox"
	"github.com/fundihub/fundihub-backend/pkg/outbox/idempotency"
)

const domainNotificationConsumer = "domain-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type providerResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Provider, error)
}

// Consumer materializes in-app notifications from published domain events.
type Consumer struct {
	repo         repository
	providers    providerResolver
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds a domain notification consumer.
func NewConsumer(repo repository, providers providerResolver, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if providers == nil {
		return nil, fmt.Errorf("provider resolver required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		providers:    providers,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, domainNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := c.handle(ctx, eventType, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, domainNotificationConsumer, eventID)
		return processResult{nack: true}
	}
	return processResult{ack: true}
}

type bookingPayload struct {
	BookingID   uuid.UUID `json:"booking_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	BookingDate string    `json:"booking_date"`
	StartTime   string    `json:"start_time"`
	Status      string    `json:"status"`
}

type orderPayload struct {
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Status     string    `json:"status"`
}

type rentalPayload struct {
	RentalID   uuid.UUID `json:"rental_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Status     string    `json:"status"`
}

type reviewPayload struct {
	ReviewID   uuid.UUID `json:"review_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Rating     int       `json:"rating"`
}

type chatPayload struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	MessageID      uuid.UUID `json:"message_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	ProviderID     uuid.UUID `json:"provider_id"`
}

type providerPayload struct {
	ProviderID uuid.UUID `json:"provider_id"`
	UserID     uuid.UUID `json:"user_id"`
}

func (c *Consumer) handle(ctx context.Context, eventType enums.OutboxEventType, data json.RawMessage, logCtx context.Context) error {
	switch eventType {
	case enums.EventBookingCreated:
		var payload bookingPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		userID, err := c.providerUser(ctx, payload.ProviderID)
		if err != nil {
			return err
		}
		return c.create(ctx, logCtx, &models.Notification{
			UserID:  userID,
			Type:    enums.NotificationBookingCreated,
			Title:   "New booking request",
			Message: fmt.Sprintf("A customer requested %s at %s.", payload.BookingDate, payload.StartTime),
			Link:    stringPtr("/provider/bookings/" + payload.BookingID.String()),
		})

	case enums.EventBookingStatusMoved:
		var payload bookingPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		return c.create(ctx, logCtx, &models.Notification{
			UserID:  payload.CustomerID,
			Type:    enums.NotificationBookingUpdated,
			Title:   "Booking updated",
			Message: fmt.Sprintf("Your booking is now %s.", payload.Status),
			Link:    stringPtr("/bookings/" + payload.BookingID.String()),
		})

	case enums.EventOrderCreated:
		var payload orderPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		userID, err := c.providerUser(ctx, payload.ProviderID)
		if err != nil {
			return err
		}
		return c.create(ctx, logCtx, &models.Notification{
			UserID:  userID,
			Type:    enums.NotificationOrderStatus,
			Title:   "New order received",
			Message: "A customer placed an order with you.",
			Link:    stringPtr("/provider/orders/" + payload.OrderID.String()),
		})

	case enums.EventOrderStatusMoved:
		var payload orderPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		return c.create(ctx, logCtx, &models.Notification{
			UserID:  payload.CustomerID,
			Type:    enums.NotificationOrderStatus,
			Title:   "Order updated",
			Message: fmt.Sprintf("Your order is now %s.", payload.Status),
			Link:    stringPtr("/orders/" + payload.OrderID.String()),
		})

	case enums.EventRentalCreated:
		var payload rentalPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		userID, err := c.providerUser(ctx, payload.ProviderID)
		if err != nil {
			return err
		}
		return c.create(ctx, logCtx, &models.Notification{
			UserID:  userID,
			Type:    enums.NotificationRentalStatus,
			Title:   "New rental request",
			Message: "A customer requested to rent your equipment.",
			Link:    stringPtr("/provider/rentals/" + payload.RentalID.String()),
		})

	case enums.EventRentalStatusMoved:
		var payload rentalPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		return c.create(ctx, logCtx, &models.Notification{
			UserID:  payload.CustomerID,
			Type:    enums.NotificationRentalStatus,
			Title:   "Rental updated",
			Message: fmt.Sprintf("Your rental is now %s.", payload.Status),
			Link:    stringPtr("/rentals/" + payload.RentalID.String()),
		})

	case enums.EventReviewCreated:
		var payload reviewPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		userID, err := c.providerUser(ctx, payload.ProviderID)
		if err != nil {
			return err
		}
		return c.create(ctx, logCtx, &models.Notification{
			UserID:  userID,
			Type:    enums.NotificationReviewReceived,
			Title:   "New review",
			Message: fmt.Sprintf("A customer rated you %d out of 5.", payload.Rating),
			Link:    stringPtr("/provider/reviews"),
		})

	case enums.EventChatMessageSent:
		var payload chatPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		recipient := payload.CustomerID
		if payload.SenderID == payload.CustomerID {
			userID, err := c.providerUser(ctx, payload.ProviderID)
			if err != nil {
				return err
			}
			recipient = userID
		}
		return c.create(ctx, logCtx, &models.Notification{
			UserID:  recipient,
			Type:    enums.NotificationChatMessage,
			Title:   "New message",
			Message: "You have a new chat message.",
			Link:    stringPtr("/chat/" + payload.ConversationID.String()),
		})

	case enums.EventProviderApproved:
		var payload providerPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		userID := payload.UserID
		if userID == uuid.Nil {
			resolved, err := c.providerUser(ctx, payload.ProviderID)
			if err != nil {
				return err
			}
			userID = resolved
		}
		return c.create(ctx, logCtx, &models.Notification{
			UserID:  userID,
			Type:    enums.NotificationProviderApproved,
			Title:   "Profile approved",
			Message: "Your provider profile is now live.",
			Link:    stringPtr("/provider/profile"),
		})

	default:
		c.logg.Info(logCtx, "event not handled")
		return nil
	}
}

func (c *Consumer) providerUser(ctx context.Context, providerID uuid.UUID) (uuid.UUID, error) {
	if providerID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("provider id missing")
	}
	provider, err := c.providers.FindByID(ctx, providerID)
	if err != nil {
		return uuid.Nil, err
	}
	return provider.UserID, nil
}

func (c *Consumer) create(ctx context.Context, logCtx context.Context, notification *models.Notification) error {
	if notification.UserID == uuid.Nil {
		return fmt.Errorf("recipient missing")
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "notification created")
	return nil
}

func stringPtr(value string) *string {
	return &value
}
