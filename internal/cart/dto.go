package cart

import (
	"github.com/google/uuid"
)

// AddItemRequest adds or refreshes a product line.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateItemRequest changes the quantity of an existing line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartView is the transport shape returned to clients.
type CartView struct {
	Items     []Item `json:"items"`
	ItemCount int    `json:"item_count"`
	Total     string `json:"total"`
}

// View derives the transport shape from the stored document.
func View(c *Cart) *CartView {
	if c == nil {
		return &CartView{Items: []Item{}, Total: "0.00"}
	}
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	return &CartView{
		Items:     items,
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
	}
}
