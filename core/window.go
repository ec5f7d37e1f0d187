package core

import (
	"sort"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

// Windower selects the subset of a large series that is materialized
// around a scroll anchor. The window size adapts to the local sample
// density so sparse and dense stretches scroll with similar visual density.
type Windower struct {
	policy contract.WindowPolicy
}

// NewWindower creates a Windower with the given policy.
func NewWindower(policy contract.WindowPolicy) *Windower {
	return &Windower{policy: policy}
}

// Policy returns the window policy in use.
func (w *Windower) Policy() contract.WindowPolicy {
	return w.policy
}

// Window returns the points of series to materialize for anchor and span.
// Series at or below the small-series threshold are returned unchanged.
// The result is a read-only subslice of series in ascending order.
func (w *Windower) Window(series []schema.Bin, anchor time.Time, span schema.Span) []schema.Bin {
	n := len(series)
	if n <= w.policy.SmallSeriesThreshold {
		return series
	}

	center := centerIndex(series, anchor)
	count := w.pointCount(series, center, span)

	start := max(center-count/2, 0)
	end := start + count
	if end > n {
		end = n
		start = n - count
	}
	return series[start:end:end]
}

// pointCount converts the buffered visible duration into a point count
// using the density around center, clamped to the policy bounds.
func (w *Windower) pointCount(series []schema.Bin, center int, span schema.Span) int {
	density := estimateDensity(series, center, w.policy.DensitySample)
	total := time.Duration(float64(span.VisibleDuration()) * w.policy.BufferMultiplier)

	count := int(total / density)
	count = max(count, w.policy.MinPoints)
	count = min(count, w.policy.MaxPoints)
	return min(count, len(series))
}

// centerIndex returns the first index whose timestamp is at or after
// anchor, or the midpoint when the anchor is past the end.
func centerIndex(series []schema.Bin, anchor time.Time) int {
	i := sort.Search(len(series), func(i int) bool {
		return !series[i].Timestamp.Before(anchor)
	})
	if i == len(series) {
		return len(series) / 2
	}
	return i
}

// estimateDensity returns the average spacing of up to sample points on
// each side of center. It defaults to one day when there is no spacing
// to measure.
func estimateDensity(series []schema.Bin, center, sample int) time.Duration {
	if len(series) < 2 {
		return schema.Day
	}
	lo := max(center-sample, 0)
	hi := min(center+sample, len(series)-1)
	if hi <= lo {
		return schema.Day
	}
	density := series[hi].Timestamp.Sub(series[lo].Timestamp) / time.Duration(hi-lo)
	if density <= 0 {
		return schema.Day
	}
	return density
}
