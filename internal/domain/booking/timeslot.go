package booking

import (
	"regexp"
	"time"
)

// Time slots are HH:MM:SS strings, provisioned by the admin.
var timeSlotPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)

func ValidTimeSlot(slot string) bool {
	return timeSlotPattern.MatchString(slot)
}

// SlotStart combines a booking date with its time slot in the salon's
// location. Used by the future-only cancellation rule.
func SlotStart(date time.Time, slot string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04:05", slot)
	if err != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0,
		loc,
	)
}
