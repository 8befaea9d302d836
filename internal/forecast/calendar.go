package forecast

import (
	"math"
	"time"
)

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return dateIn(t, t.Location())
}

// dateIn returns midnight in loc of the calendar day t falls on in its own location.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AddMonths adds n calendar months. When the target month is shorter than the
// source day, the result is clamped to the target month's last day, so
// Jan 31 + 1 month is Feb 28 (or 29) rather than early March.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddYears adds n calendar years with the same clamping as AddMonths.
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysInclusive returns the number of calendar days in r, counting both ends.
// It is zero when End is before Start.
func DaysInclusive(r DateRange) int {
	start := dateIn(r.Start, time.UTC)
	end := dateIn(r.End, time.UTC)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// RoundCents rounds to 2 decimal places, halves away from zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
