package outwriter

import (
	"strings"

	"github.com/huangsam/weighttrend/schema"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline renders bins as a fixed-width block sparkline scaled to domain.
// Bins are averaged into at most width columns.
func sparkline(bins []schema.Bin, domain schema.Range, width int) string {
	if len(bins) == 0 || width <= 0 {
		return ""
	}
	cols := min(width, len(bins))

	var sb strings.Builder
	for c := range cols {
		lo := c * len(bins) / cols
		hi := (c + 1) * len(bins) / cols
		sum := 0.0
		for _, b := range bins[lo:hi] {
			sum += b.Value
		}
		sb.WriteRune(sparkRune(sum/float64(hi-lo), domain))
	}
	return sb.String()
}

func sparkRune(v float64, domain schema.Range) rune {
	if !domain.Valid() {
		return sparkRunes[len(sparkRunes)/2]
	}
	t := (v - domain.Min) / (domain.Max - domain.Min)
	idx := int(t * float64(len(sparkRunes)))
	idx = max(0, min(idx, len(sparkRunes)-1))
	return sparkRunes[idx]
}
