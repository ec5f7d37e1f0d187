package schema

import "time"

// Day is the length of a calendar day used throughout the pipeline.
const Day = 24 * time.Hour

// VisibleDuration returns the nominal visible window of the span.
func (s Span) VisibleDuration() time.Duration {
	switch s {
	case WeekSpan:
		return 7 * Day
	case YearSpan:
		return 365 * Day
	default:
		return 30 * Day
	}
}

// Align snaps t to the calendar boundary used by scroll snapping:
// start of day for week, start of the ISO week for month, and
// first of the month for year. The result keeps the location of t.
func (s Span) Align(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	switch s {
	case WeekSpan:
		return day
	case YearSpan:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	default:
		offset := (int(day.Weekday()) + 6) % 7 // Monday is zero
		return day.AddDate(0, 0, -offset)
	}
}

// String implements fmt.Stringer.
func (s Span) String() string { return string(s) }

// Factor returns the multiplicative factor from kilograms to the unit.
func (u Unit) Factor() float64 {
	if u == Pound {
		return poundsPerKilogram
	}
	return 1.0
}

// String implements fmt.Stringer.
func (u Unit) String() string { return string(u) }

// String implements fmt.Stringer.
func (m Metric) String() string { return string(m) }
