package cart

import (
	"testing"

	"github.com/google/uuid"
)

func TestClampQuantity(t *testing.T) {
	cases := []struct {
		requested, stock, want int
	}{
		{0, 10, 1},
		{-3, 10, 1},
		{5, 10, 5},
		{15, 10, 10},
		{5, 0, 5},
	}
	for _, tc := range cases {
		if got := ClampQuantity(tc.requested, tc.stock); got != tc.want {
			t.Errorf("ClampQuantity(%d, %d): expected %d, got %d", tc.requested, tc.stock, tc.want, got)
		}
	}
}

func TestCartTotals(t *testing.T) {
	c := &Cart{
		UserID: uuid.New(),
		Items: []Item{
			{ProductID: uuid.New(), UnitPriceCents: 2500, Quantity: 2},
			{ProductID: uuid.New(), UnitPriceCents: 199, Quantity: 3},
		},
	}

	if c.ItemCount() != 5 {
		t.Fatalf("expected item count 5, got %d", c.ItemCount())
	}
	if c.TotalCents() != 5597 {
		t.Fatalf("expected total 5597 cents, got %d", c.TotalCents())
	}
	if c.Total() != "55.97" {
		t.Fatalf("expected total 55.97, got %s", c.Total())
	}
}

func TestViewNilCart(t *testing.T) {
	view := View(nil)
	if view == nil {
		t.Fatal("expected empty view for nil cart")
	}
	if len(view.Items) != 0 || view.ItemCount != 0 {
		t.Fatalf("expected empty view, got %+v", view)
	}
	if view.Total != "0.00" {
		t.Fatalf("expected zero total, got %s", view.Total)
	}
}

func TestViewNilItems(t *testing.T) {
	view := View(&Cart{UserID: uuid.New()})
	if view.Items == nil {
		t.Fatal("items must never serialize as null")
	}
	if view.Total != "0.00" {
		t.Fatalf("expected zero total, got %s", view.Total)
	}
}
