package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
)

// ReviewDTO is the transport shape for provider reviews.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateRequest carries the payload to review a provider.
type CreateRequest struct {
	ProviderID uuid.UUID `json:"provider_id" validate:"required"`
	Rating     int       `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string   `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// ListResult is a cursor page of reviews.
type ListResult struct {
	Reviews    []ReviewDTO `json:"reviews"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

func FromModel(r *models.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		ProviderID: r.ProviderID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
