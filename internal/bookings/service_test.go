package bookings

import (
	"testing"

	"github.com/fundihub/fundihub-backend/pkg/enums"
)

func TestBookingTransitions(t *testing.T) {
	cases := []struct {
		from, to enums.BookingStatus
		allowed  bool
	}{
		{enums.BookingStatusPending, enums.BookingStatusConfirmed, true},
		{enums.BookingStatusPending, enums.BookingStatusCancelled, true},
		{enums.BookingStatusConfirmed, enums.BookingStatusCompleted, true},
		{enums.BookingStatusConfirmed, enums.BookingStatusCancelled, true},
		{enums.BookingStatusPending, enums.BookingStatusCompleted, false},
		{enums.BookingStatusCompleted, enums.BookingStatusCancelled, false},
		{enums.BookingStatusCancelled, enums.BookingStatusPending, false},
		{enums.BookingStatusCompleted, enums.BookingStatusConfirmed, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}
