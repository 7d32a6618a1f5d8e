package booking

import (
	"testing"
	"time"

	"github.com/medibook/medibook/internal/doctor"
)

func TestGenerateSlots_MorningWindow(t *testing.T) {
	timings := doctor.WeeklyTimings{
		"monday": {Start: "09:00", End: "12:00", Available: true},
	}

	// 2026-03-02 is a Monday.
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots := GenerateSlots(timings, date)

	if len(slots) != 6 {
		t.Fatalf("expected 6 slots for a 9-12 window, got %d", len(slots))
	}
	if slots[0].Start != "09:00" || slots[0].End != "09:30" {
		t.Errorf("first slot = %v, want 09:00-09:30", slots[0])
	}
	last := slots[len(slots)-1]
	if last.Start != "11:30" || last.End != "12:00" {
		t.Errorf("last slot = %v, want 11:30-12:00", last)
	}
}

func TestGenerateSlots_UnavailableDay(t *testing.T) {
	timings := doctor.WeeklyTimings{
		"sunday": {Start: "09:00", End: "17:00", Available: false},
	}

	// 2026-03-01 is a Sunday.
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	slots := GenerateSlots(timings, date)

	if len(slots) != 0 {
		t.Errorf("expected no slots on an unavailable day, got %d", len(slots))
	}
}

func TestGenerateSlots_MissingWeekday(t *testing.T) {
	timings := doctor.WeeklyTimings{
		"monday": {Start: "09:00", End: "17:00", Available: true},
	}

	// 2026-03-03 is a Tuesday, which has no window at all.
	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	if slots := GenerateSlots(timings, date); len(slots) != 0 {
		t.Errorf("expected no slots for a missing weekday, got %d", len(slots))
	}
}

func TestGenerateSlots_PartialTrailingSlotExcluded(t *testing.T) {
	timings := doctor.WeeklyTimings{
		"monday": {Start: "09:00", End: "10:15", Available: true},
	}

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots := GenerateSlots(timings, date)

	// 09:00-09:30 and 09:30-10:00 fit; 10:00-10:30 overshoots the window.
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[1].End != "10:00" {
		t.Errorf("last slot end = %q, want 10:00", slots[1].End)
	}
}

func TestDeriveEnd(t *testing.T) {
	cases := []struct {
		start, want string
	}{
		{"09:00", "09:30"},
		{"09:30", "10:00"},
		{"23:45", "24:15"},
	}
	for _, c := range cases {
		got, err := deriveEnd(c.start)
		if err != nil {
			t.Fatalf("deriveEnd(%q): %v", c.start, err)
		}
		if got != c.want {
			t.Errorf("deriveEnd(%q) = %q, want %q", c.start, got, c.want)
		}
	}

	if _, err := deriveEnd("not-a-time"); err == nil {
		t.Error("expected error for malformed start time")
	}
}

func TestDayBucket(t *testing.T) {
	in := time.Date(2026, 3, 2, 14, 37, 9, 123, time.UTC)
	got := DayBucket(in)
	want := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DayBucket = %v, want %v", got, want)
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusRejected, StatusCompleted, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusApproved} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
		if !s.Active() {
			t.Errorf("%s should be active", s)
		}
	}
}
