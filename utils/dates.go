package utils

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate accepts "2006-01-02" or RFC3339 and returns UTC midnight of that day.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return StartOfDay(t), nil
}

// StartOfDay truncates t to UTC midnight.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NightsBetween counts the nights of the half-open stay [checkIn, checkOut).
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(StartOfDay(checkOut).Sub(StartOfDay(checkIn)).Hours() / 24)
}

// EnumerateNights lists every night d with checkIn <= d < checkOut.
func EnumerateNights(checkIn, checkOut time.Time) []time.Time {
	start, end := StartOfDay(checkIn), StartOfDay(checkOut)
	var nights []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}

// FormatDate renders t in the wire date layout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
