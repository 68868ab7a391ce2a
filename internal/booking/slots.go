package booking

import (
	"strings"
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/shelter"
)

// SlotTemplate is the fixed daily sequence of bookable hourly slots.
// Availability is always a subset of this template, in this order.
var SlotTemplate = []string{
	"09:00 AM",
	"10:00 AM",
	"11:00 AM",
	"12:00 PM",
	"01:00 PM",
	"02:00 PM",
	"03:00 PM",
	"04:00 PM",
	"05:00 PM",
	"06:00 PM",
}

const slotLabelLayout = "03:04 PM"

// IsTemplateSlot reports whether label is one of the template slots.
func IsTemplateSlot(label string) bool {
	for _, s := range SlotTemplate {
		if s == label {
			return true
		}
	}
	return false
}

// AvailableSlots computes the bookable slots for one shelter-day.
// hoursEntry is the shelter's operating-hours value for the weekday of the
// visit ("Closed", "09:00 AM - 06:00 PM", or empty when no entry exists).
// claimed holds the slot labels already taken by non-cancelled bookings.
//
// Policy for missing or unparseable hours: the shelter is treated as open for
// the full template. "Closed" is the only way to block a weekday entirely.
func AvailableSlots(hoursEntry string, claimed []string) []string {
	entry := strings.TrimSpace(hoursEntry)
	if strings.EqualFold(entry, shelter.HoursClosed) {
		return []string{}
	}

	open, close, haveRange := parseHoursRange(entry)

	taken := make(map[string]struct{}, len(claimed))
	for _, slot := range claimed {
		taken[slot] = struct{}{}
	}

	slots := make([]string, 0, len(SlotTemplate))
	for _, slot := range SlotTemplate {
		if haveRange {
			t, err := time.Parse(slotLabelLayout, slot)
			if err != nil {
				continue
			}
			minute := t.Hour()*60 + t.Minute()
			if minute < open || minute > close {
				continue
			}
		}
		if _, ok := taken[slot]; ok {
			continue
		}
		slots = append(slots, slot)
	}

	return slots
}

// parseHoursRange parses "09:00 AM - 06:00 PM" into minutes since midnight.
// ok is false for empty or malformed entries.
func parseHoursRange(entry string) (open, close int, ok bool) {
	if entry == "" {
		return 0, 0, false
	}

	parts := strings.SplitN(entry, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	openT, err := time.Parse(slotLabelLayout, strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	closeT, err := time.Parse(slotLabelLayout, strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}

	open = openT.Hour()*60 + openT.Minute()
	close = closeT.Hour()*60 + closeT.Minute()
	if close < open {
		return 0, 0, false
	}
	return open, close, true
}
