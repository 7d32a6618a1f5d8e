package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/medibook/medibook/internal/doctor"
)

// SlotMinutes is the fixed slot width. Slot generation and the end-time
// derivation in Book must agree on it.
const SlotMinutes = 30

// DayBucket truncates time-of-day so bookings group by calendar date.
func DayBucket(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return hours*60 + minutes, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// deriveEnd returns start plus one slot width.
func deriveEnd(start string) (string, error) {
	m, err := parseClock(start)
	if err != nil {
		return "", err
	}
	return formatClock(m + SlotMinutes), nil
}

// GenerateSlots derives the bookable slots for one calendar date from the
// weekly availability template: 30-minute aligned intervals from the
// weekday's start up to but excluding its end. An unavailable day or a
// missing window yields no slots.
func GenerateSlots(timings doctor.WeeklyTimings, date time.Time) []TimeSlot {
	weekday := strings.ToLower(date.Weekday().String())

	window, ok := timings[weekday]
	if !ok || !window.Available || window.Start == "" || window.End == "" {
		return []TimeSlot{}
	}

	start, err := parseClock(window.Start)
	if err != nil {
		return []TimeSlot{}
	}
	end, err := parseClock(window.End)
	if err != nil {
		return []TimeSlot{}
	}

	slots := []TimeSlot{}
	for m := start; m+SlotMinutes <= end; m += SlotMinutes {
		slots = append(slots, TimeSlot{
			Start: formatClock(m),
			End:   formatClock(m + SlotMinutes),
		})
	}
	return slots
}
