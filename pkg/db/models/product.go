package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a purchasable item owned by a provider.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProviderID    uuid.UUID      `gorm:"column:provider_id;type:uuid;not null;index"`
	Name          string         `gorm:"column:name;not null"`
	Description   *string        `gorm:"column:description"`
	Category      *string        `gorm:"column:category"`
	PriceCents    int64          `gorm:"column:price_cents;not null"`
	StockQuantity int            `gorm:"column:stock_quantity;not null;default:0"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true"`
	ImageURLs     pq.StringArray `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
