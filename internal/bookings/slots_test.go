package bookings

import (
	"testing"

	"github.com/fundihub/fundihub-backend/pkg/config"
)

func defaultGrid() *SlotGrid {
	return NewSlotGrid(config.BookingConfig{
		OpenHour:    9,
		CloseHour:   18,
		SlotMinutes: 30,
	})
}

func TestSlotGridDefaults(t *testing.T) {
	grid := defaultGrid()
	if grid.Size() != 18 {
		t.Fatalf("expected 18 slots, got %d", grid.Size())
	}

	slots := grid.Slots()
	if slots[0] != "09:00" {
		t.Fatalf("expected first slot 09:00, got %s", slots[0])
	}
	if slots[len(slots)-1] != "17:30" {
		t.Fatalf("expected last slot 17:30, got %s", slots[len(slots)-1])
	}
}

func TestSlotGridContains(t *testing.T) {
	grid := defaultGrid()
	for _, slot := range []string{"09:00", "12:30", "17:30"} {
		if !grid.Contains(slot) {
			t.Fatalf("expected grid to contain %s", slot)
		}
	}
	for _, slot := range []string{"08:30", "18:00", "09:15", ""} {
		if grid.Contains(slot) {
			t.Fatalf("expected grid to reject %s", slot)
		}
	}
}

func TestSlotGridCustomHours(t *testing.T) {
	grid := NewSlotGrid(config.BookingConfig{OpenHour: 8, CloseHour: 12, SlotMinutes: 60})
	if grid.Size() != 4 {
		t.Fatalf("expected 4 slots, got %d", grid.Size())
	}
	if !grid.Contains("11:00") {
		t.Fatal("expected grid to contain 11:00")
	}
	if grid.Contains("12:00") {
		t.Fatal("close hour must not start a slot")
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-03-15"); err != nil {
		t.Fatalf("parse valid date: %v", err)
	}
	if _, err := ParseDate("15/03/2026"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
