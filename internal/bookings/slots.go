package bookings

import (
	"fmt"
	"time"

	"github.com/fundihub/fundihub-backend/pkg/config"
)

const dateLayout = "2006-01-02"

// SlotGrid is the fixed set of half-hour start times offered every day.
type SlotGrid struct {
	slots []string
	index map[string]struct{}
}

// NewSlotGrid builds the grid from booking configuration. With the defaults
// (09:00 open, 18:00 close, 30 minute steps) the grid holds 18 slots.
func NewSlotGrid(cfg config.BookingConfig) *SlotGrid {
	total := (cfg.CloseHour - cfg.OpenHour) * 60 / cfg.SlotMinutes
	slots := make([]string, 0, total)
	index := make(map[string]struct{}, total)
	for i := 0; i < total; i++ {
		minutes := cfg.OpenHour*60 + i*cfg.SlotMinutes
		slot := fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
		slots = append(slots, slot)
		index[slot] = struct{}{}
	}
	return &SlotGrid{slots: slots, index: index}
}

// Slots returns the grid start times in order.
func (g *SlotGrid) Slots() []string {
	return append([]string{}, g.slots...)
}

// Size returns the number of slots per day.
func (g *SlotGrid) Size() int {
	return len(g.slots)
}

// Contains reports whether the start time is on the grid.
func (g *SlotGrid) Contains(slot string) bool {
	_, ok := g.index[slot]
	return ok
}

// ParseDate validates a civil date string (YYYY-MM-DD).
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
