package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/weighttrend/core"
	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/internal/iocache"
	"github.com/huangsam/weighttrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// samplesBackend reads the sample backend settings without full validation.
func samplesBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("sample-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	connStr := viper.GetString("sample-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// samplesSetup loads minimal configuration needed for sample operations.
// This is used by commands that need sample access without full shared setup.
func samplesSetup() error {
	backend, connStr, err := samplesBackend()
	if err != nil {
		return err
	}

	// Initialize the sample store only (no cache for sample commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize samples: %w", err)
	}

	cfg.SampleBackend = backend
	cfg.SampleDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// samplesSetupWrapper wraps samplesSetup to provide PreRunE for sample commands.
func samplesSetupWrapper(_ *cobra.Command, _ []string) error {
	return samplesSetup()
}

// samplesMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func samplesMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := samplesBackend()
	if err != nil {
		return err
	}
	cfg.SampleBackend = backend
	cfg.SampleDBConnect = connStr
	return nil
}

// sampleFilePath returns the SQLite file behind the sample backend.
func sampleFilePath() string {
	if cfg.SampleDBConnect != "" {
		return cfg.SampleDBConnect
	}
	return contract.GetSampleDBFilePath()
}

// samplesCmd focused on raw sample management.
var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Manage the raw weight sample database",
	Long: `Manage the raw weight samples read by the sql provider.

Samples are timestamped measurements in kilograms with a source label.
The sql provider aggregates them into day bins (week and month spans) and
ISO-week bins (year span), and derives BMI from --height.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show sample statistics and schema version
  seed    - Fill the database with deterministic synthetic history
  export  - Export raw samples to Parquet
  clear   - Remove all samples
  migrate - Run database schema migrations

Examples:
  # Seed ten years of history and chart it
  weighttrend samples seed
  weighttrend frame --provider sql --span year`,
}

// samplesStatusCmd shows sample store status.
var samplesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display sample statistics and connection details",
	Long: `Show detailed information about the raw sample database.

Displays:
- Backend type and connection status
- Applied schema version
- Total number of samples
- First and last sample date
- Table size

Examples:
  # Check sample status
  weighttrend samples status`,
	PreRunE: samplesSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSampleStore()
		if store == nil {
			contract.LogFatal("Failed to get sample status", fmt.Errorf("sample backend is not configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get sample status", err)
		}
		iocache.PrintSampleStatus(os.Stdout, status)
	},
}

// samplesSeedCmd fills the sample store with synthetic history.
var samplesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the sample database with synthetic history",
	Long: `Generate deterministic synthetic samples and store them.

The generator is seeded by --seed and spans --synthetic-years, with daily
measurements and random multi-day gaps. Seeding again with the same seed
replaces the same timestamps instead of duplicating them.

Examples:
  # Ten years with the default seed
  weighttrend samples seed

  # Three years of a different history
  weighttrend samples seed --seed 7 --synthetic-years 3`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSampleSeed(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to seed samples", err)
		}
	},
}

// samplesExportCmd exports raw samples to Parquet files.
var samplesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export raw samples to Parquet",
	Long: `Export every raw sample to a Parquet file for analysis in pandas,
DuckDB, Spark or any other Parquet reader.

Examples:
  # Export all samples
  weighttrend samples export --output-file samples.parquet`,
	PreRunE: samplesSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSampleExport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to export samples", err)
		}
	},
}

// samplesClearCmd clears the sample data.
var samplesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all raw samples",
	Long: `Delete all stored samples along with the migration history.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the sample and migration tables

Examples:
  # Export before clearing
  weighttrend samples export --output-file backup.parquet
  weighttrend samples clear`,
	PreRunE: samplesMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearSamples(cfg.SampleBackend, sampleFilePath(), cfg.SampleDBConnect); err != nil {
			contract.LogFatal("Failed to clear samples", err)
		}
		fmt.Println("Samples cleared successfully.")
	},
}

// samplesMigrateCmd runs database migrations.
var samplesMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations",
	Long: `Apply or roll back schema migrations of the sample database.

Migrations are embedded in the binary and applied with golang-migrate.
Opening the store migrates to the latest version automatically; use this
command to inspect or roll back.

Examples:
  # Migrate to latest version (default)
  weighttrend samples migrate

  # Migrate to specific version
  weighttrend samples migrate --target-version 1

  # Rollback to initial state
  weighttrend samples migrate --target-version 0`,
	PreRunE: samplesMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.MigrateSamples(cfg.SampleBackend, cfg.SampleDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(result)
	},
}
