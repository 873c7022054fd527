// Package clock provides an injectable time source and the calendar
// helpers the scheduling rules depend on, so tests can pin dates.
package clock

import "time"

// Clock is a source of the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// New returns a Clock backed by the system time.
func New() Clock { return systemClock{} }

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// DateOf truncates t to midnight UTC, the canonical form for schedule
// and leave dates throughout the system.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MondayOf returns the Monday of the week containing day.
func MondayOf(day time.Time) time.Time {
	d := DateOf(day)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return d.AddDate(0, 0, -offset)
}

// ISOWeek returns the ISO 8601 week number of day.
func ISOWeek(day time.Time) int {
	_, week := day.ISOWeek()
	return week
}

// IsWeekday reports whether day is Monday through Friday.
func IsWeekday(day time.Time) bool {
	wd := day.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
