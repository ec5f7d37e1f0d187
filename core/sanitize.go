package core

import (
	"math"
	"sort"

	"github.com/huangsam/weighttrend/schema"
)

// Sanitize returns a copy of bins sorted ascending by timestamp with
// non-finite values removed and duplicate timestamps collapsed. When two
// bins share a timestamp, the one that appears later in the input wins.
func Sanitize(bins []schema.Bin) []schema.Bin {
	if len(bins) == 0 {
		return nil
	}
	out := make([]schema.Bin, 0, len(bins))
	for _, b := range bins {
		if math.IsNaN(b.Value) || math.IsInf(b.Value, 0) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	n := 0
	for i := range out {
		if n > 0 && out[n-1].Timestamp.Equal(out[i].Timestamp) {
			out[n-1] = out[i]
			continue
		}
		out[n] = out[i]
		n++
	}
	return out[:n:n]
}
