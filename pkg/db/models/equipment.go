package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Equipment is a rentable item owned by a provider. Availability flips while
// a rental is active.
type Equipment struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProviderID     uuid.UUID      `gorm:"column:provider_id;type:uuid;not null;index"`
	Name           string         `gorm:"column:name;not null"`
	Description    *string        `gorm:"column:description"`
	DailyRateCents int64          `gorm:"column:daily_rate_cents;not null"`
	IsAvailable    bool           `gorm:"column:is_available;not null;default:true"`
	ImageURLs      pq.StringArray `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
