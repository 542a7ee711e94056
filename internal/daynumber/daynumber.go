// Package daynumber counts relationship days relative to a fixed anchor date.
package daynumber

import "time"

// Day returns the calendar day number of date relative to reference, where
// the reference date itself is day 1 and the day before it is day 0. Only
// the calendar date of each argument matters; both are truncated to
// start-of-day in their own location before subtracting, so a timestamp just
// before midnight lands on the same day number as one just after breakfast.
func Day(date, reference time.Time) int {
	d := startOfDay(date)
	r := startOfDay(reference)
	return int(d.Sub(r).Hours()/24) + 1
}

// startOfDay maps a timestamp to midnight UTC of its calendar date. Going
// through UTC keeps the subtraction at exactly 24h per day even across DST
// changes in the input location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
