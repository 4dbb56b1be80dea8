package timetricks

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	table := []struct {
		name     string
		from, to time.Time
		want     int
	}{{
		name: "same day",
		from: time.Date(2024, time.June, 1, 23, 59, 0, 0, time.UTC),
		to:   time.Date(2024, time.June, 1, 0, 1, 0, 0, time.UTC),
		want: 0,
	}, {
		name: "two days ahead",
		from: time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
		to:   time.Date(2024, time.June, 3, 1, 0, 0, 0, time.UTC),
		want: 2,
	}, {
		name: "in the past",
		from: time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC),
		to:   time.Date(2024, time.June, 2, 23, 0, 0, 0, time.UTC),
		want: -3,
	}, {
		name: "across a month boundary",
		from: time.Date(2024, time.May, 30, 6, 0, 0, 0, time.UTC),
		to:   time.Date(2024, time.June, 2, 6, 0, 0, 0, time.UTC),
		want: 3,
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysBetween(tc.from, tc.to); got != tc.want {
				t.Errorf("DaysBetween = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, time.June, 1, 1, 0, 0, 0, time.UTC)
	b := time.Date(2024, time.June, 1, 23, 0, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("expected same day")
	}
	if SameDay(a, b.Add(2*time.Hour)) {
		t.Error("expected different days")
	}
}
