package cmd

import (
	"fmt"
	"time"

	"github.com/huangsam/weighttrend/core"
	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/spf13/cobra"
)

// frameCmd prints the chart frame for the configured state.
var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Show the weight and BMI frame around an anchor.",
	Long: `Compute the chart frame for one span, unit and anchor.

The frame holds what a chart would draw:
- Weight points of the visible window, split into segments at data gaps
- BMI points normalized onto the weight axis, segmented the same way
- The Y domain and the visible X duration of the span

Only a window around the anchor is processed, so a decade of history
stays cheap to draw at every zoom level.

Examples:
  # Latest month in kilograms
  weighttrend frame

  # A year around a specific date, in pounds
  weighttrend frame --span year --anchor 2021-06-01 --unit lb

  # Snap the anchor to the start of the ISO week
  weighttrend frame --anchor "3 months ago" --snap

  # Machine-readable output
  weighttrend frame --output json --output-file frame.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFrame(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute frame", err)
		}
	},
}

// scrollCmd applies scroll steps and prints the frame that settles afterwards.
var scrollCmd = &cobra.Command{
	Use:   "scroll",
	Short: "Scroll the chart by one or more steps and show the settled frame.",
	Long: `Move the anchor step by step the way a drag gesture would.

Each step is clamped into the data. Recomputes are debounced, so only
the frame for the final anchor is computed and printed.

Examples:
  # Two weeks back from the latest sample
  weighttrend scroll --step "-2 weeks"

  # Several steps, as a drag would produce them
  weighttrend scroll --span year --step "-3 months" --step "+10 days" --step=-36h`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		raw, err := cmd.Flags().GetStringArray("step")
		if err != nil {
			contract.LogFatal("Cannot read scroll steps", err)
		}
		steps := make([]time.Duration, 0, len(raw))
		for _, s := range raw {
			step, err := contract.ParseScrollStep(s)
			if err != nil {
				contract.LogFatal("Cannot parse scroll steps", err)
			}
			steps = append(steps, step)
		}
		if len(steps) == 0 {
			contract.LogFatal("Cannot scroll", fmt.Errorf("at least one --step is required"))
		}
		if err := core.ScrollExecutor(steps)(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot scroll frame", err)
		}
	},
}

// exportCmd writes the current frame to Parquet.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the points of the current frame to Parquet",
	Long: `Write every plotted point of the current frame to a Parquet file.

Each row carries span, unit, anchor, metric, segment index, timestamp and
value, ready for pandas, DuckDB or Spark.

Examples:
  # Export the latest year
  weighttrend export --span year --output-file year.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFrameExport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot export frame", err)
		}
	},
}
