package ui

import (
	"time"

	"github.com/amonks/shiftbook/businessday"
)

var weekdaysDE = [...]string{
	time.Sunday:    "Sonntag",
	time.Monday:    "Montag",
	time.Tuesday:   "Dienstag",
	time.Wednesday: "Mittwoch",
	time.Thursday:  "Donnerstag",
	time.Friday:    "Freitag",
	time.Saturday:  "Samstag",
}

// WeekdayDE returns the German name of a weekday.
func WeekdayDE(day time.Weekday) string {
	return weekdaysDE[day]
}

// FormatDay renders a business day like "Donnerstag, 02.05.2024".
func FormatDay(key businessday.Key) string {
	t := key.Time(time.UTC)
	if t.IsZero() {
		return string(key)
	}
	return WeekdayDE(t.Weekday()) + ", " + t.Format("02.01.2006")
}
