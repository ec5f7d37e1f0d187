// Package cmd defines the command-line interface for weighttrend.
package cmd

import (
	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(frameCmd)
	rootCmd.AddCommand(scrollCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(unitCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(samplesCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the samples subcommands to the parent samples command
	samplesCmd.AddCommand(samplesClearCmd)
	samplesCmd.AddCommand(samplesStatusCmd)
	samplesCmd.AddCommand(samplesExportCmd)
	samplesCmd.AddCommand(samplesMigrateCmd)
	samplesCmd.AddCommand(samplesSeedCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("span", string(schema.MonthSpan), "Chart span: week or month or year")
	rootCmd.PersistentFlags().String("unit", "", "Weight unit: kg or lb (defaults to the stored preference)")
	rootCmd.PersistentFlags().String("anchor", "", "Window anchor in RFC3339, YYYY-MM-DD or time ago (defaults to the latest sample)")
	rootCmd.PersistentFlags().Bool("snap", false, "Snap the anchor to the span's calendar boundary")
	rootCmd.PersistentFlags().Bool("refresh", false, "Fetch from the sample source even when published data is still fresh")
	rootCmd.PersistentFlags().String("provider", string(schema.SyntheticProvider), "Sample source: synthetic or sql")
	rootCmd.PersistentFlags().Int("synthetic-years", contract.DefaultSyntheticYears, "Years of history the synthetic source generates")
	rootCmd.PersistentFlags().Int64("seed", contract.DefaultSyntheticSeed, "Seed of the synthetic source")
	rootCmd.PersistentFlags().Float64("height", contract.DefaultHeightMeters, "Height in meters used for BMI")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("sample-backend", string(schema.SQLiteBackend), "Sample backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("sample-db-connect", "", "Database connection string for raw samples (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Scroll steps stay on cobra; they are per-invocation input, not configuration
	scrollCmd.Flags().StringArray("step", nil, "Scroll step such as '-2 weeks' or '+36h' (repeatable)")

	// Bind all flags of samplesMigrateCmd to Viper
	samplesMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(samplesMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding samples migrate flags", err)
	}
}
