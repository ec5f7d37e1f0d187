package cmd

import (
	"github.com/huangsam/weighttrend/core"
	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// unitCmd reads or persists the unit preference.
var unitCmd = &cobra.Command{
	Use:   "unit [kg|lb]",
	Short: "Show or set the preferred weight unit.",
	Long: `Read or persist the display unit used when --unit is not given.

The preference lives in the cache backend next to the series snapshots.

Examples:
  # Show the stored preference
  weighttrend unit

  # Switch to pounds
  weighttrend unit lb`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The positional unit wins over flags, env and config
		if len(args) == 1 {
			viper.Set("unit", args[0])
		}
		return sharedSetup(rootCtx, cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteUnit(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot handle unit preference", err)
		}
	},
}
