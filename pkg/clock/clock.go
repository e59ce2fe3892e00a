package clock

import "time"

// Clock supplies "now" to code that derives dates (overdue views, paid dates).
type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always reports the same instant. Handy in tests.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Date truncates t to a calendar date at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of c.Now().
func Today(c Clock) time.Time { return Date(c.Now()) }

// AddDays moves a calendar date by n days.
func AddDays(d time.Time, n int) time.Time { return Date(d).AddDate(0, 0, n) }
