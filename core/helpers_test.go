package core

import (
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

var epoch = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

// dailyBins returns n bins spaced one day apart starting at start.
func dailyBins(start time.Time, n int, value func(i int) float64) []schema.Bin {
	bins := make([]schema.Bin, n)
	for i := range bins {
		bins[i] = schema.Bin{Timestamp: start.Add(time.Duration(i) * schema.Day), Value: value(i)}
	}
	return bins
}

func constant(v float64) func(int) float64 {
	return func(int) float64 { return v }
}

func linear(base, step float64) func(int) float64 {
	return func(i int) float64 { return base + step*float64(i) }
}

// testConfig returns a config with every pipeline default in place.
func testConfig() *contract.Config {
	return &contract.Config{
		Window:           contract.DefaultWindowPolicy(),
		Gaps:             contract.DefaultGapPolicy(),
		CacheExpiry:      contract.DefaultCacheExpiry,
		Debounce:         contract.DefaultDebounce,
		ScrollBucket:     contract.DefaultScrollBucket,
		ViewCacheEntries: contract.DefaultViewCacheEntries,
	}
}

// staticSource is a SeriesSource backed by a fixed map.
type staticSource struct {
	bins    map[schema.Span]map[schema.Metric][]schema.Bin
	version uint64
}

func newStaticSource() *staticSource {
	return &staticSource{bins: make(map[schema.Span]map[schema.Metric][]schema.Bin), version: 1}
}

func (s *staticSource) set(span schema.Span, metric schema.Metric, bins []schema.Bin) *staticSource {
	if s.bins[span] == nil {
		s.bins[span] = make(map[schema.Metric][]schema.Bin)
	}
	s.bins[span][metric] = bins
	return s
}

func (s *staticSource) SpanData(span schema.Span) SpanData {
	return SpanData{
		DataVersion: s.version,
		Weight:      schema.Series{Span: span, Metric: schema.WeightMetric, Bins: s.bins[span][schema.WeightMetric]},
		BMI:         schema.Series{Span: span, Metric: schema.BMIMetric, Bins: s.bins[span][schema.BMIMetric]},
	}
}
