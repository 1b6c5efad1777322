package bookings

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
)

// BookingDTO is the transport shape for bookings.
type BookingDTO struct {
	ID          uuid.UUID           `json:"id"`
	CustomerID  uuid.UUID           `json:"customer_id"`
	ProviderID  uuid.UUID           `json:"provider_id"`
	ServiceID   uuid.UUID           `json:"service_id"`
	BookingDate string              `json:"booking_date"`
	StartTime   string              `json:"start_time"`
	Status      enums.BookingStatus `json:"status"`
	Notes       *string             `json:"notes,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// CreateRequest carries the payload to book a slot.
type CreateRequest struct {
	ProviderID  uuid.UUID `json:"provider_id" validate:"required"`
	ServiceID   uuid.UUID `json:"service_id" validate:"required"`
	BookingDate string    `json:"booking_date" validate:"required"`
	StartTime   string    `json:"start_time" validate:"required"`
	Notes       *string   `json:"notes,omitempty"`
}

// StatusRequest moves a booking along its lifecycle.
type StatusRequest struct {
	Status enums.BookingStatus `json:"status" validate:"required"`
}

// AvailabilityRequest asks for taken slots over a provider's date range.
type AvailabilityRequest struct {
	ProviderID uuid.UUID
	From       string
	To         string
}

// DayAvailability reports the taken slots for one date.
type DayAvailability struct {
	Date        string   `json:"date"`
	TakenSlots  []string `json:"taken_slots"`
	FullyBooked bool     `json:"fully_booked"`
}

// AvailabilityResponse is the per-day availability over the requested range.
type AvailabilityResponse struct {
	Slots []string          `json:"slots"`
	Days  []DayAvailability `json:"days"`
}

// ListResult is a cursor page of bookings.
type ListResult struct {
	Bookings   []BookingDTO `json:"bookings"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

func FromModel(b *models.Booking) *BookingDTO {
	if b == nil {
		return nil
	}
	return &BookingDTO{
		ID:          b.ID,
		CustomerID:  b.CustomerID,
		ProviderID:  b.ProviderID,
		ServiceID:   b.ServiceID,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime,
		Status:      b.Status,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
	}
}
