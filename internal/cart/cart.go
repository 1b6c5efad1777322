package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cartTTL keeps abandoned carts from living in Redis forever.
const cartTTL = 30 * 24 * time.Hour

// Item is one product line inside a cart.
type Item struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProviderID     uuid.UUID `json:"provider_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	StockQuantity  int       `json:"stock_quantity"`
	ImageURL       *string   `json:"image_url,omitempty"`
}

// Cart is the server-side cart document stored in Redis per user.
type Cart struct {
	UserID    uuid.UUID `json:"user_id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemCount sums the quantities across lines.
func (c *Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalCents sums line subtotals.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPriceCents * int64(item.Quantity)
	}
	return total
}

// Total renders the cart total as a fixed-point decimal string.
func (c *Cart) Total() string {
	return decimal.NewFromInt(c.TotalCents()).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// ClampQuantity bounds a requested quantity to [1, stock].
func ClampQuantity(requested, stock int) int {
	if requested < 1 {
		return 1
	}
	if stock > 0 && requested > stock {
		return stock
	}
	return requested
}
