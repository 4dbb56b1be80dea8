package timetricks

import (
	"time"
)

const (
	dayFormat = "20060102"
)

func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

func TrimClock(t time.Time) time.Time {
	h, m, s := t.Clock()
	return t.Add(-1 *
		(time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second))
}

// DaysBetween returns the number of calendar days from one date to the
// other, ignoring the wall clock. Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(midnightUTC(to).Sub(midnightUTC(from)).Hours() / 24)
}

// midnightUTC pins a date to midnight UTC so day arithmetic is immune
// to zone offsets and DST transitions.
func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
