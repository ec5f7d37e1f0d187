package outwriter

import (
	"io"
	"os"

	"github.com/huangsam/weighttrend/internal/contract"
	"golang.org/x/term"
)

// Sparkline width limits in runes.
const (
	minSparkWidth = 8
	maxSparkWidth = 60
)

// terminalWidth returns the configured width override, the detected width of
// out when it is a terminal, or a conservative default.
func terminalWidth(cfg *contract.Config, out io.Writer) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80 // Conservative default for narrow terminals and CI
}

// sparkWidth calculates the width of the shape column in the frame table
// based on terminal width and the fixed columns.
func sparkWidth(cfg *contract.Config, out io.Writer) int {
	// Metric + Segment + Start + End + Points + Min + Max + Trend with borders/padding
	baseWidth := 8 + 9 + 12 + 12 + 8 + 9 + 9 + 10
	// Reserve space for table borders, separators, and padding
	baseWidth += 20

	available := terminalWidth(cfg, out) - baseWidth
	return max(minSparkWidth, min(available, maxSparkWidth))
}
