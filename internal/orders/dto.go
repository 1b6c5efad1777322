package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
)

// OrderItemDTO is one captured product line.
type OrderItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	UnitPrice      string    `json:"unit_price"`
	Quantity       int       `json:"quantity"`
}

// OrderDTO is the transport shape for product orders.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	CustomerID uuid.UUID         `json:"customer_id"`
	ProviderID uuid.UUID         `json:"provider_id"`
	Status     enums.OrderStatus `json:"status"`
	TotalCents int64             `json:"total_cents"`
	Total      string            `json:"total"`
	Items      []OrderItemDTO    `json:"items"`
	CreatedAt  time.Time         `json:"created_at"`
}

// StatusRequest moves an order along its lifecycle.
type StatusRequest struct {
	Status enums.OrderStatus `json:"status" validate:"required"`
}

// CheckoutResult carries the orders produced by one checkout, one per provider.
type CheckoutResult struct {
	Orders []OrderDTO `json:"orders"`
}

// ListResult is a cursor page of orders.
type ListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

func formatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

func FromModel(o *models.ProductOrder) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			UnitPrice:      formatCents(item.UnitPriceCents),
			Quantity:       item.Quantity,
		})
	}
	return &OrderDTO{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		ProviderID: o.ProviderID,
		Status:     o.Status,
		TotalCents: o.TotalCents,
		Total:      formatCents(o.TotalCents),
		Items:      items,
		CreatedAt:  o.CreatedAt,
	}
}
