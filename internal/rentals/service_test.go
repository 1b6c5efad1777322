package rentals

import (
	"testing"
	"time"

	"github.com/fundihub/fundihub-backend/pkg/enums"
)

func TestRentalTransitions(t *testing.T) {
	cases := []struct {
		from, to enums.RentalStatus
		allowed  bool
	}{
		{enums.RentalStatusPending, enums.RentalStatusActive, true},
		{enums.RentalStatusPending, enums.RentalStatusCancelled, true},
		{enums.RentalStatusActive, enums.RentalStatusCompleted, true},
		{enums.RentalStatusActive, enums.RentalStatusCancelled, false},
		{enums.RentalStatusPending, enums.RentalStatusCompleted, false},
		{enums.RentalStatusCompleted, enums.RentalStatusActive, false},
		{enums.RentalStatusCancelled, enums.RentalStatusPending, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestRentalDaysInclusive(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		start, end time.Time
		want       int
	}{
		{day(1), day(1), 1},
		{day(1), day(2), 2},
		{day(1), day(7), 7},
		{day(10), day(30), 21},
	}
	for _, tc := range cases {
		if got := RentalDays(tc.start, tc.end); got != tc.want {
			t.Errorf("RentalDays(%s, %s): expected %d, got %d",
				tc.start.Format("2006-01-02"), tc.end.Format("2006-01-02"), tc.want, got)
		}
	}
}
