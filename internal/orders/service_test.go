package orders

import (
	"testing"

	"github.com/fundihub/fundihub-backend/pkg/enums"
)

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		from, to enums.OrderStatus
		allowed  bool
	}{
		{enums.OrderStatusPending, enums.OrderStatusProcessing, true},
		{enums.OrderStatusPending, enums.OrderStatusCancelled, true},
		{enums.OrderStatusProcessing, enums.OrderStatusShipped, true},
		{enums.OrderStatusProcessing, enums.OrderStatusCancelled, true},
		{enums.OrderStatusShipped, enums.OrderStatusCompleted, true},
		{enums.OrderStatusPending, enums.OrderStatusShipped, false},
		{enums.OrderStatusShipped, enums.OrderStatusCancelled, false},
		{enums.OrderStatusCompleted, enums.OrderStatusPending, false},
		{enums.OrderStatusCancelled, enums.OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestRestoresStock(t *testing.T) {
	if !restoresStock(enums.OrderStatusPending) {
		t.Fatal("cancel from pending must restore stock")
	}
	if !restoresStock(enums.OrderStatusProcessing) {
		t.Fatal("cancel from processing must restore stock")
	}
	if restoresStock(enums.OrderStatusShipped) {
		t.Fatal("shipped orders must not restore stock")
	}
}

func TestFormatCents(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		1050:   "10.50",
		123456: "1234.56",
	}
	for cents, want := range cases {
		if got := formatCents(cents); got != want {
			t.Errorf("formatCents(%d): expected %s, got %s", cents, want, got)
		}
	}
}
