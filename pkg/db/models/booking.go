package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundihub/fundihub-backend/pkg/enums"
)

// UniqueBookingSlotConstraint names the partial unique index that keeps one
// non-cancelled booking per provider slot. Conflict mapping depends on it.
const UniqueBookingSlotConstraint = "uq_bookings_provider_slot"

// Booking ties a customer to a provider's service at a fixed half-hour slot.
// BookingDate is a civil date (YYYY-MM-DD) and StartTime a grid slot (HH:MM).
type Booking struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	ProviderID  uuid.UUID           `gorm:"column:provider_id;type:uuid;not null;index"`
	ServiceID   uuid.UUID           `gorm:"column:service_id;type:uuid;not null"`
	BookingDate string              `gorm:"column:booking_date;type:date;not null"`
	StartTime   string              `gorm:"column:start_time;not null"`
	Status      enums.BookingStatus `gorm:"column:status;type:booking_status;not null;default:'pending'"`
	Notes       *string             `gorm:"column:notes"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
