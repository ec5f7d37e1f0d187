// Package schema has configs, models and global variables for all parts of weighttrend.
package schema

import "time"

// Bin is one aggregated sample of a series. Two bins with the same
// timestamp occupy the same slot.
type Bin struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Series is an ordered sequence of bins for one span and metric.
// Missing days are absent bins, never zero-valued bins.
type Series struct {
	Span   Span   `json:"span"`
	Metric Metric `json:"metric"`
	Bins   []Bin  `json:"bins"`
}

// Empty reports whether the series has no bins.
func (s Series) Empty() bool { return len(s.Bins) == 0 }

// Bounds returns the first and last timestamps of the series.
// ok is false for an empty series.
func (s Series) Bounds() (first, last time.Time, ok bool) {
	if len(s.Bins) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.Bins[0].Timestamp, s.Bins[len(s.Bins)-1].Timestamp, true
}

// Range is a closed value interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Valid reports whether the range has a positive width.
func (r Range) Valid() bool { return r.Max > r.Min }

// Contains reports whether v lies within the closed range.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Sample is a raw weight measurement as recorded by a scale or import.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Kilograms float64   `json:"kilograms"`
	Source    string    `json:"source"`
}

// WindowState is the chart state owned by the consuming UI layer.
type WindowState struct {
	Span   Span      `json:"span"`
	Anchor time.Time `json:"anchor"`
	Unit   Unit      `json:"unit"`
}

// ViewKey identifies one derived view in the view cache.
type ViewKey struct {
	Span        Span
	Unit        Unit
	DataVersion uint64
	Bucket      int64 // scroll bucket in unix seconds
}

// View is the derived data computed for one ViewKey.
type View struct {
	WindowedWeight []Bin
	WindowedBMI    []Bin
	WeightSegments [][]Bin
	NormalizedBMI  []Bin
	BMISegments    [][]Bin
	YDomain        Range
}

// Frame is everything the rendering layer needs to draw one chart state.
type Frame struct {
	Span             Span          `json:"span"`
	Unit             Unit          `json:"unit"`
	Anchor           time.Time     `json:"anchor"`
	BucketAnchor     time.Time     `json:"bucket_anchor"`
	DataVersion      uint64        `json:"data_version"`
	WeightSegments   [][]Bin       `json:"weight_segments"`
	BMISegments      [][]Bin       `json:"bmi_segments"`
	YDomain          Range         `json:"y_domain"`
	XVisibleDuration time.Duration `json:"x_visible_duration"`
	WindowedPoints   int           `json:"windowed_points"`
}

// PointCount returns the number of weight points across all segments.
func (f Frame) PointCount() int {
	n := 0
	for _, seg := range f.WeightSegments {
		n += len(seg)
	}
	return n
}

// SeriesSummary describes one stored series for status output.
type SeriesSummary struct {
	Span   Span      `json:"span"`
	Metric Metric    `json:"metric"`
	Count  int       `json:"count"`
	First  time.Time `json:"first"`
	Last   time.Time `json:"last"`
	Range  Range     `json:"range"`
}
