package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
)

// ServiceDTO is the transport shape for bookable services.
type ServiceDTO struct {
	ID          uuid.UUID `json:"id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Price       string    `json:"price"`
	IsActive    bool      `json:"is_active"`
	ImageURLs   []string  `json:"image_urls"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductDTO is the transport shape for purchasable products.
type ProductDTO struct {
	ID            uuid.UUID `json:"id"`
	ProviderID    uuid.UUID `json:"provider_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Category      *string   `json:"category,omitempty"`
	PriceCents    int64     `json:"price_cents"`
	Price         string    `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	ImageURLs     []string  `json:"image_urls"`
	CreatedAt     time.Time `json:"created_at"`
}

// EquipmentDTO is the transport shape for rentable equipment.
type EquipmentDTO struct {
	ID             uuid.UUID `json:"id"`
	ProviderID     uuid.UUID `json:"provider_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	DailyRateCents int64     `json:"daily_rate_cents"`
	DailyRate      string    `json:"daily_rate"`
	IsAvailable    bool      `json:"is_available"`
	ImageURLs      []string  `json:"image_urls"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateServiceRequest carries the fields to create a service offering.
type CreateServiceRequest struct {
	Name        string   `json:"name" validate:"required,min=2"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	PriceCents  int64    `json:"price_cents" validate:"required,min=0"`
	ImageURLs   []string `json:"image_urls,omitempty"`
}

// UpdateServiceRequest carries the mutable service fields.
type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=2"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	PriceCents  *int64   `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	IsActive    *bool    `json:"is_active,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty"`
}

// CreateProductRequest carries the fields to create a product.
type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2"`
	Description   *string  `json:"description,omitempty"`
	Category      *string  `json:"category,omitempty"`
	PriceCents    int64    `json:"price_cents" validate:"required,min=0"`
	StockQuantity int      `json:"stock_quantity" validate:"min=0"`
	ImageURLs     []string `json:"image_urls,omitempty"`
}

// UpdateProductRequest carries the mutable product fields.
type UpdateProductRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=2"`
	Description   *string  `json:"description,omitempty"`
	Category      *string  `json:"category,omitempty"`
	PriceCents    *int64   `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	StockQuantity *int     `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
	ImageURLs     []string `json:"image_urls,omitempty"`
}

// CreateEquipmentRequest carries the fields to create rentable equipment.
type CreateEquipmentRequest struct {
	Name           string   `json:"name" validate:"required,min=2"`
	Description    *string  `json:"description,omitempty"`
	DailyRateCents int64    `json:"daily_rate_cents" validate:"required,min=0"`
	ImageURLs      []string `json:"image_urls,omitempty"`
}

// UpdateEquipmentRequest carries the mutable equipment fields.
type UpdateEquipmentRequest struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,min=2"`
	Description    *string  `json:"description,omitempty"`
	DailyRateCents *int64   `json:"daily_rate_cents,omitempty" validate:"omitempty,min=0"`
	IsAvailable    *bool    `json:"is_available,omitempty"`
	ImageURLs      []string `json:"image_urls,omitempty"`
}

// ServiceListResult is a cursor page of services.
type ServiceListResult struct {
	Services   []ServiceDTO `json:"services"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// ProductListResult is a cursor page of products.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// EquipmentListResult is a cursor page of equipment.
type EquipmentListResult struct {
	Equipment  []EquipmentDTO `json:"equipment"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}

func formatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

func ServiceFromModel(m *models.Service) *ServiceDTO {
	if m == nil {
		return nil
	}
	return &ServiceDTO{
		ID:          m.ID,
		ProviderID:  m.ProviderID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		PriceCents:  m.PriceCents,
		Price:       formatCents(m.PriceCents),
		IsActive:    m.IsActive,
		ImageURLs:   append([]string{}, m.ImageURLs...),
		CreatedAt:   m.CreatedAt,
	}
}

func ProductFromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	return &ProductDTO{
		ID:            m.ID,
		ProviderID:    m.ProviderID,
		Name:          m.Name,
		Description:   m.Description,
		Category:      m.Category,
		PriceCents:    m.PriceCents,
		Price:         formatCents(m.PriceCents),
		StockQuantity: m.StockQuantity,
		IsActive:      m.IsActive,
		ImageURLs:     append([]string{}, m.ImageURLs...),
		CreatedAt:     m.CreatedAt,
	}
}

func EquipmentFromModel(m *models.Equipment) *EquipmentDTO {
	if m == nil {
		return nil
	}
	return &EquipmentDTO{
		ID:             m.ID,
		ProviderID:     m.ProviderID,
		Name:           m.Name,
		Description:    m.Description,
		DailyRateCents: m.DailyRateCents,
		DailyRate:      formatCents(m.DailyRateCents),
		IsAvailable:    m.IsAvailable,
		ImageURLs:      append([]string{}, m.ImageURLs...),
		CreatedAt:      m.CreatedAt,
	}
}
