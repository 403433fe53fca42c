package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayWindow(t *testing.T) {
	anchor := time.Date(2024, 3, 10, 15, 42, 7, 0, time.Local)
	start, end := DayWindow(anchor)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, endOfDayNanos, time.Local), end)
}

func TestWeekWindowStartsSunday(t *testing.T) {
	// 2024-03-05 is a Tuesday; its Sun-Sat week is Mar 3 through Mar 9.
	anchor := time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local)
	start, end := WeekWindow(anchor)

	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2024, 3, 9, 23, 59, 59, endOfDayNanos, time.Local), end)
}

func TestWeekWindowSundayAnchor(t *testing.T) {
	// A Sunday anchor opens its own week.
	anchor := time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local)
	start, end := WeekWindow(anchor)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2024, 3, 16, 23, 59, 59, endOfDayNanos, time.Local), end)
}

func TestMonthWindow(t *testing.T) {
	anchor := time.Date(2024, 2, 14, 12, 0, 0, 0, time.Local)
	start, end := MonthWindow(anchor)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), start)
	// 2024 is a leap year.
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, endOfDayNanos, time.Local), end)
}

func TestYearWindow(t *testing.T) {
	anchor := time.Date(2024, 7, 1, 12, 0, 0, 0, time.Local)
	start, end := YearWindow(anchor)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, endOfDayNanos, time.Local), end)
}
