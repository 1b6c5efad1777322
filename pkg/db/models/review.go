package models

import (
	"time"

	"github.com/google/uuid"
)

// UniqueReviewConstraint names the unique index enforcing one review per
// (customer, provider) pair.
const UniqueReviewConstraint = "uq_reviews_customer_provider"

// Review is a customer's single rating of a provider.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:uq_reviews_customer_provider"`
	ProviderID uuid.UUID `gorm:"column:provider_id;type:uuid;not null;uniqueIndex:uq_reviews_customer_provider"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    *string   `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
