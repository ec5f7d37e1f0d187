package contract

import (
	"testing"
	"time"
)

// FuzzParseAnchor fuzzes the ParseAnchor function with random inputs.
func FuzzParseAnchor(f *testing.F) {
	seeds := []string{
		"2024-05-16",
		"2024-05-16T10:00:00Z",
		"now",
		"3 months ago",
		"",
		"yesterday",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	now := time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)
	f.Fuzz(func(_ *testing.T, s string) {
		_, _ = ParseAnchor(s, now)
	})
}

// FuzzParseDuration fuzzes the ParseDuration function with random inputs.
func FuzzParseDuration(f *testing.F) {
	for _, seed := range []string{"3 days", "720h", "40ms", "0s", "1 year", "x"} {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, s string) {
		_, _ = ParseDuration(s)
	})
}
