package core

import "github.com/huangsam/weighttrend/schema"

// RangeOf returns the value range of points. The zero Range is returned
// for empty input.
func RangeOf(points []schema.Bin) schema.Range {
	if len(points) == 0 {
		return schema.Range{}
	}
	r := schema.Range{Min: points[0].Value, Max: points[0].Value}
	for _, p := range points[1:] {
		r.Min = min(r.Min, p.Value)
		r.Max = max(r.Max, p.Value)
	}
	return r
}

// Normalize maps secondary values linearly from secondaryRange onto
// primaryRange so the series can be overlaid on the primary axis.
//
// A degenerate range on either side yields an empty result. Points outside
// secondaryRange, and mapped values that land outside primaryRange, are
// dropped.
func Normalize(secondary []schema.Bin, primaryRange, secondaryRange schema.Range) []schema.Bin {
	if !primaryRange.Valid() || !secondaryRange.Valid() {
		return nil
	}
	width := secondaryRange.Max - secondaryRange.Min

	out := make([]schema.Bin, 0, len(secondary))
	for _, b := range secondary {
		if !secondaryRange.Contains(b.Value) {
			continue
		}
		t := (b.Value - secondaryRange.Min) / width
		mapped := primaryRange.Min*(1-t) + primaryRange.Max*t
		if !primaryRange.Contains(mapped) {
			continue
		}
		out = append(out, schema.Bin{Timestamp: b.Timestamp, Value: mapped})
	}
	return out
}
