package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Define the regular expression to capture "N [units] ago"
// e.g., "2 years ago", "3 months ago", "1 week ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?\s+ago$`)

// ParseRelativeTime converts strings like "2 years ago" into a time.Time in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch unit {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.Add(time.Duration(-value) * 7 * 24 * time.Hour), nil
	case "day":
		return now.Add(time.Duration(-value) * 24 * time.Hour), nil
	case "hour":
		return now.Add(time.Duration(-value) * time.Hour), nil
	case "minute":
		return now.Add(time.Duration(-value) * time.Minute), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time unit: %s", unit)
	}
}

// ParseAnchor parses a chart anchor. It accepts RFC3339, a plain date
// (interpreted as UTC midnight), "now", or a relative time like "3 months ago".
func ParseAnchor(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "now") {
		return now, nil
	}
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t, nil
	}
	if t, err := ParseRelativeTime(s, now); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (expected RFC3339, YYYY-MM-DD, or 'N units ago')", s)
}

// Define the regular expression to capture "N [units]".
var durationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?$`)

// ParseDuration converts strings like "3 days" or "720h" into a single time.Duration.
// It first tries Go's built-in time.ParseDuration for standard formats, then falls back
// to custom parsing for human-readable formats.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if duration, err := time.ParseDuration(s); err == nil {
		if duration == 0 {
			return 0, errors.New("zero duration is not useful")
		}
		return duration, nil
	}

	s = strings.ToLower(s)
	matches := durationRe.FindStringSubmatch(strings.Join(strings.Fields(s), " "))
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	var total time.Duration
	switch unit {
	case "year":
		// Approximation: 1 year ≈ 365 days
		total = time.Duration(value) * 365 * 24 * time.Hour
	case "month":
		// Approximation: 1 month ≈ 30 days
		total = time.Duration(value) * 30 * 24 * time.Hour
	case "week":
		total = time.Duration(value) * 7 * 24 * time.Hour
	case "day":
		total = time.Duration(value) * 24 * time.Hour
	case "hour":
		total = time.Duration(value) * time.Hour
	case "minute":
		total = time.Duration(value) * time.Minute
	default:
		return 0, errors.New("unsupported time unit")
	}

	if total == 0 {
		return 0, errors.New("zero duration is not useful")
	}
	return total, nil
}

// ParseScrollStep parses a signed scroll offset such as "-2 weeks", "+36h" or "3 days".
// Negative steps move the anchor back in time.
func ParseScrollStep(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	sign := time.Duration(1)
	switch {
	case strings.HasPrefix(s, "-"):
		sign, s = -1, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	d, err := ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid scroll step: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid scroll step %q: put the sign before the amount", s)
	}
	return sign * d, nil
}
