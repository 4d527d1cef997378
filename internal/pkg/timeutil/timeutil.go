// Package timeutil holds the pure date/time helpers shared by the workflow
// services: combining the portal's separate date and time inputs into
// instants, and deriving worked/elapsed durations from them.
package timeutil

import (
	"fmt"
	"time"
)

// CombineDateTime builds a local instant from a "YYYY-MM-DD" date and an
// "HH:MM" time, the two fields the correction form collects separately.
func CombineDateTime(dateStr, timeStr string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	clock, err := time.Parse("15:04", timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", timeStr, err)
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0,
		time.Local,
	), nil
}

// FormatDate formats an instant as a local "YYYY-MM-DD" string.
func FormatDate(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// FormatTime formats an instant as a local "HH:MM" string.
func FormatTime(t time.Time) string {
	return t.Local().Format("15:04")
}

// HoursBetween returns the worked hours between check-in and check-out.
// Never negative: an inverted pair yields 0.
func HoursBetween(in, out time.Time) float64 {
	d := out.Sub(in)
	if d < 0 {
		return 0
	}
	return d.Hours()
}

// ElapsedSince returns the wall-clock time elapsed since start, for the
// open-entry live counter. Never negative.
func ElapsedSince(start, now time.Time) time.Duration {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}

// SameInstantWithin reports whether a and b are within tol of each other.
func SameInstantWithin(a, b time.Time, tol time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// DayAfter reports whether a falls on a later calendar day than b, in the
// local timezone. Future checks are day-granular: a later hour today is not
// "the future" for correction purposes.
func DayAfter(a, b time.Time) bool {
	al, bl := a.Local(), b.Local()
	ad := time.Date(al.Year(), al.Month(), al.Day(), 0, 0, 0, 0, time.Local)
	bd := time.Date(bl.Year(), bl.Month(), bl.Day(), 0, 0, 0, 0, time.Local)
	return ad.After(bd)
}
