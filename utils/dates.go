// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func BeginningOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

// DayWindow returns [start, end) of the calendar day containing now in loc,
// expressed in UTC.
func DayWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	start := BeginningOfDay(now.In(loc))
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// MonthWindow returns [start, end) of the calendar month containing now in
// loc, expressed in UTC.
func MonthWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	start := BeginningOfMonth(now.In(loc))
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}

// ParseDateOrTime accepts RFC3339 timestamps or plain YYYY-MM-DD dates, the
// latter interpreted as midnight in loc.
func ParseDateOrTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want RFC3339 or YYYY-MM-DD", value)
}
