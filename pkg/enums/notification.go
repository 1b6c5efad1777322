package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "booking_created"
	NotificationBookingUpdated   NotificationType = "booking_updated"
	NotificationOrderStatus      NotificationType = "order_status"
	NotificationRentalStatus     NotificationType = "rental_status"
	NotificationChatMessage      NotificationType = "chat_message"
	NotificationReviewReceived   NotificationType = "review_received"
	NotificationProviderApproved NotificationType = "provider_approved"
)

var validNotificationTypes = []NotificationType{
	NotificationBookingCreated,
	NotificationBookingUpdated,
	NotificationOrderStatus,
	NotificationRentalStatus,
	NotificationChatMessage,
	NotificationReviewReceived,
	NotificationProviderApproved,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationType.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
