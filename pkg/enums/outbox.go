package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateBooking     OutboxAggregateType = "booking"
	AggregateOrder       OutboxAggregateType = "product_order"
	AggregateRental      OutboxAggregateType = "equipment_rental"
	AggregateReview      OutboxAggregateType = "review"
	AggregateChatMessage OutboxAggregateType = "chat_message"
	AggregateProvider    OutboxAggregateType = "provider"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateBooking,
	AggregateOrder,
	AggregateRental,
	AggregateReview,
	AggregateChatMessage,
	AggregateProvider,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventBookingCreated     OutboxEventType = "booking_created"
	EventBookingStatusMoved OutboxEventType = "booking_status_moved"
	EventOrderCreated       OutboxEventType = "order_created"
	EventOrderStatusMoved   OutboxEventType = "order_status_moved"
	EventRentalCreated      OutboxEventType = "rental_created"
	EventRentalStatusMoved  OutboxEventType = "rental_status_moved"
	EventReviewCreated      OutboxEventType = "review_created"
	EventChatMessageSent    OutboxEventType = "chat_message_sent"
	EventProviderApproved   OutboxEventType = "provider_approved"
)

var validEventTypes = []OutboxEventType{
	EventBookingCreated,
	EventBookingStatusMoved,
	EventOrderCreated,
	EventOrderStatusMoved,
	EventRentalCreated,
	EventRentalStatusMoved,
	EventReviewCreated,
	EventChatMessageSent,
	EventProviderApproved,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
