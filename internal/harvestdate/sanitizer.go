// Package harvestdate validates harvest dates produced by upstream analysis and
// substitutes a safe fallback when they are malformed, past or too distant.
package harvestdate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/harvest-advisor/internal/clock"
)

// Layout is the day/month/4-digit-year format used for harvest dates.
const Layout = "02/01/2006"

// MaxHorizonDays is how far ahead an accepted date may lie.
const MaxHorizonDays = 90

var datePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// Sanitizer is pure given its clock.
type Sanitizer struct {
	clock clock.Clock
}

// New returns a Sanitizer reading "today" from c (nil means the real clock).
func New(c clock.Clock) *Sanitizer {
	if c == nil {
		c = clock.Real{}
	}
	return &Sanitizer{clock: c}
}

// EnsureFutureDate returns candidate when it is a real date between today and
// today+90 days (inclusive). A past year is re-anchored onto the current year
// when the result is still acceptable. Anything else yields today+fallbackOffsetDays.
func (s *Sanitizer) EnsureFutureDate(candidate string, fallbackOffsetDays int) string {
	today := clock.Today(s.clock)

	if d, ok := parse(strings.TrimSpace(candidate), today.Location()); ok {
		if d.Year() < today.Year() {
			if anchored, ok := date(today.Year(), int(d.Month()), d.Day(), today.Location()); ok && s.inWindow(anchored, today) {
				return Format(anchored)
			}
		} else if s.inWindow(d, today) {
			return Format(d)
		}
	}
	return s.Fallback(fallbackOffsetDays)
}

// Fallback returns today plus offset days. Negative offsets count as zero.
func (s *Sanitizer) Fallback(offsetDays int) string {
	today := clock.Today(s.clock)
	d := today.AddDate(0, 0, max(offsetDays, 0))
	if d.Year() < today.Year() {
		d = today
	}
	return Format(d)
}

// Format renders t in Layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

func (s *Sanitizer) inWindow(d, today time.Time) bool {
	return !d.Before(today) && !d.After(today.AddDate(0, 0, MaxHorizonDays))
}

func parse(candidate string, loc *time.Location) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(candidate)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return date(year, month, day, loc)
}

// date builds a calendar date, rejecting values time.Date would normalize (31/02).
func date(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}
