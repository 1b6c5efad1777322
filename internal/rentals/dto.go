package rentals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
)

// RentalDTO is the transport shape for equipment rentals.
type RentalDTO struct {
	ID          uuid.UUID          `json:"id"`
	CustomerID  uuid.UUID          `json:"customer_id"`
	ProviderID  uuid.UUID          `json:"provider_id"`
	EquipmentID uuid.UUID          `json:"equipment_id"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	TotalCents  int64              `json:"total_cents"`
	Total       string             `json:"total"`
	Status      enums.RentalStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// CreateRequest carries the payload to request a rental.
type CreateRequest struct {
	EquipmentID uuid.UUID `json:"equipment_id" validate:"required"`
	StartDate   string    `json:"start_date" validate:"required"`
	EndDate     string    `json:"end_date" validate:"required"`
}

// StatusRequest moves a rental along its lifecycle.
type StatusRequest struct {
	Status enums.RentalStatus `json:"status" validate:"required"`
}

// ListResult is a cursor page of rentals.
type ListResult struct {
	Rentals    []RentalDTO `json:"rentals"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

func FromModel(r *models.EquipmentRental) *RentalDTO {
	if r == nil {
		return nil
	}
	return &RentalDTO{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		ProviderID:  r.ProviderID,
		EquipmentID: r.EquipmentID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		TotalCents:  r.TotalCents,
		Total:       decimal.NewFromInt(r.TotalCents).Div(decimal.NewFromInt(100)).StringFixed(2),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}
