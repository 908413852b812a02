// AngelaMos | 2026
// calendar.go

package core

import (
	"time"
)

// StartOfDay is local midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek is the most recent Sunday at midnight, t's own day included.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// StartOfMonth is the first day of the month monthsBack months before t.
func StartOfMonth(t time.Time, monthsBack int) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m-time.Month(monthsBack), 1, 0, 0, 0, 0, t.Location())
}
