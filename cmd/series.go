package cmd

import (
	"github.com/huangsam/weighttrend/core"
	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/spf13/cobra"
)

// seriesCmd summarizes the stored series.
var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Summarize the weight and BMI series of every span.",
	Long: `Refresh the series store and describe what it holds.

For each span (week, month, year) and metric (weight, bmi) shows:
- Number of bins
- First and last timestamp
- Minimum and maximum value

A snapshot of the last refresh is kept in the cache backend, so repeated
runs within --cache-expiry do not hit the sample source again.

Examples:
  # Summary of the synthetic history
  weighttrend series

  # Summary of samples stored in PostgreSQL
  WEIGHTTREND_SAMPLE_DB_CONNECT="host=... dbname=..." weighttrend series --provider sql --sample-backend postgresql`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot summarize series", err)
		}
	},
}
