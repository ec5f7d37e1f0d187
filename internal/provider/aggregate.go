// Package provider has the sample sources that feed the series store.
package provider

import (
	"math"
	"sort"
	"time"

	"github.com/huangsam/weighttrend/schema"
)

// binStart returns the start of the bin containing t for the span.
// Week and month use calendar days; year uses ISO weeks starting Monday.
func binStart(t time.Time, span schema.Span) time.Time {
	y, m, d := t.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if span != schema.YearSpan {
		return day
	}
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// BinSamples averages samples into per-span bins sorted by timestamp.
// Samples that are not finite or not positive are ignored.
func BinSamples(samples []schema.Sample, span schema.Span) []schema.Bin {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[time.Time]*acc)
	for _, s := range samples {
		if s.Kilograms <= 0 || math.IsNaN(s.Kilograms) || math.IsInf(s.Kilograms, 0) {
			continue
		}
		key := binStart(s.Timestamp, span)
		a, ok := groups[key]
		if !ok {
			a = &acc{}
			groups[key] = a
		}
		a.sum += s.Kilograms
		a.count++
	}

	bins := make([]schema.Bin, 0, len(groups))
	for ts, a := range groups {
		bins = append(bins, schema.Bin{Timestamp: ts, Value: a.sum / float64(a.count)})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Timestamp.Before(bins[j].Timestamp) })
	return bins
}

// BMI converts weight bins in kilograms to body mass index bins.
func BMI(weights []schema.Bin, heightMeters float64) []schema.Bin {
	if heightMeters <= 0 {
		return nil
	}
	sq := heightMeters * heightMeters
	out := make([]schema.Bin, len(weights))
	for i, b := range weights {
		out[i] = schema.Bin{Timestamp: b.Timestamp, Value: b.Value / sq}
	}
	return out
}
