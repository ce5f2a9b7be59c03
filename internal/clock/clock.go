// Package clock provides the time source used by date-sensitive code.
package clock

import "time"

// Clock abstracts the current time so date math can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using the system time (always UTC).
type Real struct{}

// Now returns the current time in UTC.
func (Real) Now() time.Time { return time.Now().UTC() }

// Fixed is a Clock that always reports the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time { return time.Time(f) }

// Today returns midnight of the clock's current day, in the clock's location.
func Today(c Clock) time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
