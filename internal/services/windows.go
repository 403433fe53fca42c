package services

import "time"

// Window helpers compute inclusive [start, end] query ranges anchored at a
// reference time, in that time's location. End bounds sit at 23:59:59.999
// of the closing day.

// DayWindow covers the anchor's calendar day.
func DayWindow(anchor time.Time) (time.Time, time.Time) {
	start := startOfDay(anchor)
	return start, endOfDay(start)
}

// WeekWindow covers Sunday through Saturday of the anchor's week.
func WeekWindow(anchor time.Time) (time.Time, time.Time) {
	start := startOfDay(anchor.AddDate(0, 0, -int(anchor.Weekday())))
	return start, endOfDay(start.AddDate(0, 0, 6))
}

// MonthWindow covers the first through last day of the anchor's month.
func MonthWindow(anchor time.Time) (time.Time, time.Time) {
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	return start, endOfDay(start.AddDate(0, 1, -1))
}

// YearWindow covers January 1 through December 31 of the anchor's year.
func YearWindow(anchor time.Time) (time.Time, time.Time) {
	start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, anchor.Location())
	return start, endOfDay(time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, anchor.Location()))
}

// endOfDayNanos is the nanosecond component of a window's closing instant,
// 23:59:59.999.
const endOfDayNanos = 999_000_000

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, endOfDayNanos, t.Location())
}
