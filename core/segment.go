package core

import (
	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

// Segmenter splits ordered points into runs that are drawn as connected
// lines. A new run starts wherever consecutive points are further apart
// than the span's maximum gap.
type Segmenter struct {
	gaps contract.GapPolicy
}

// NewSegmenter creates a Segmenter with the given gap policy.
func NewSegmenter(gaps contract.GapPolicy) *Segmenter {
	return &Segmenter{gaps: gaps}
}

// Segments partitions points into maximal runs. Concatenating the result
// yields points again. Single-point runs are kept as isolated segments.
func (s *Segmenter) Segments(points []schema.Bin, span schema.Span) [][]schema.Bin {
	if len(points) == 0 {
		return nil
	}
	maxGap := s.gaps.MaxGap(span)

	var segments [][]schema.Bin
	start := 0
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp.Sub(points[i-1].Timestamp) > maxGap {
			segments = append(segments, points[start:i:i])
			start = i
		}
	}
	return append(segments, points[start:len(points):len(points)])
}
