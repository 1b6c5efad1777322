package providers

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
)

// ProviderDTO is the transport shape for provider profiles.
type ProviderDTO struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	BusinessName   string     `json:"business_name"`
	Description    *string    `json:"description,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	AddressLine    string     `json:"address_line"`
	City           string     `json:"city"`
	RatingAverage  float64    `json:"rating_average"`
	RatingCount    int        `json:"rating_count"`
	IsActive       bool       `json:"is_active"`
	PaymentQRMedia *uuid.UUID `json:"payment_qr_media_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ApplyRequest is the payload to register as a service provider.
type ApplyRequest struct {
	BusinessName string  `json:"business_name" validate:"required,min=2"`
	Description  *string `json:"description,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine  string  `json:"address_line" validate:"required"`
	City         string  `json:"city" validate:"required"`
}

// UpdateRequest carries the mutable provider profile fields.
type UpdateRequest struct {
	BusinessName   *string    `json:"business_name,omitempty" validate:"omitempty,min=2"`
	Description    *string    `json:"description,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	AddressLine    *string    `json:"address_line,omitempty"`
	City           *string    `json:"city,omitempty"`
	PaymentQRMedia *uuid.UUID `json:"payment_qr_media_id,omitempty"`
}

// ListResult is a cursor page of providers.
type ListResult struct {
	Providers  []ProviderDTO `json:"providers"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

func FromModel(p *models.Provider) *ProviderDTO {
	if p == nil {
		return nil
	}
	return &ProviderDTO{
		ID:             p.ID,
		UserID:         p.UserID,
		BusinessName:   p.BusinessName,
		Description:    p.Description,
		Phone:          p.Phone,
		AddressLine:    p.AddressLine,
		City:           p.City,
		RatingAverage:  p.RatingAverage,
		RatingCount:    p.RatingCount,
		IsActive:       p.IsActive,
		PaymentQRMedia: p.PaymentQRMedia,
		CreatedAt:      p.CreatedAt,
	}
}
