package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundihub/fundihub-backend/pkg/enums"
)

// EquipmentRental reserves a piece of equipment over a civil date range.
type EquipmentRental struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID          `gorm:"column:customer_id;type:uuid;not null;index"`
	ProviderID  uuid.UUID          `gorm:"column:provider_id;type:uuid;not null;index"`
	EquipmentID uuid.UUID          `gorm:"column:equipment_id;type:uuid;not null;index"`
	StartDate   string             `gorm:"column:start_date;type:date;not null"`
	EndDate     string             `gorm:"column:end_date;type:date;not null"`
	TotalCents  int64              `gorm:"column:total_cents;not null"`
	Status      enums.RentalStatus `gorm:"column:status;type:rental_status;not null;default:'pending'"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
