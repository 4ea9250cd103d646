package navseries

import "time"

// Date layouts. Requests use ISO; the provider feed and a few display
// fields use day-first.
const (
	DateISO     = "2006-01-02"
	DateDisplay = "02-01-2006"
)

var dateLayouts = []string{DateISO, DateDisplay, "02/01/2006"}

// ParseDate parses YYYY-MM-DD, DD-MM-YYYY or DD/MM/YYYY into midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths advances t by n calendar months, clamping the day-of-month to
// the end of the target month: Jan 31 + 1 month = Feb 28 (29 in leap
// years), never Mar 2. n may be negative.
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + n
	year += total / 12
	rem := total % 12
	if rem < 0 {
		rem += 12
		year--
	}
	target := time.Month(rem + 1)
	if max := daysInMonth(year, target); day > max {
		day = max
	}
	return time.Date(year, target, day, 0, 0, 0, 0, time.UTC)
}

// AddYears advances t by n calendar years with the same day clamp
// (Feb 29 + 1 year = Feb 28).
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, n*12)
}

// DaysBetween returns whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// YearsBetween returns the span from a to b in 365.25-day years.
func YearsBetween(a, b time.Time) float64 {
	return float64(DaysBetween(a, b)) / 365.25
}
