package models

import (
	"time"

	"github.com/google/uuid"
)

// Provider represents a service provider's business profile. One per user.
type Provider struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BusinessName   string     `gorm:"column:business_name;not null"`
	Description    *string    `gorm:"column:description"`
	Phone          *string    `gorm:"column:phone"`
	AddressLine    string     `gorm:"column:address_line;not null"`
	City           string     `gorm:"column:city;not null"`
	RatingAverage  float64    `gorm:"column:rating_average;not null;default:0"`
	RatingCount    int        `gorm:"column:rating_count;not null;default:0"`
	IsActive       bool       `gorm:"column:is_active;not null;default:false"`
	PaymentQRMedia *uuid.UUID `gorm:"column:payment_qr_media_id;type:uuid"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
