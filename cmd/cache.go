package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/internal/iocache"
	"github.com/huangsam/weighttrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no sample store for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheFilePath returns the SQLite file behind the cache backend.
func cacheFilePath() string {
	if cfg.CacheDBConnect != "" {
		return cfg.CacheDBConnect
	}
	return contract.GetCacheDBFilePath()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by chart commands. This avoids provider setup
// and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage series snapshots and preferences",
	Long: `Manage the cache that holds series snapshots and user preferences.

Every successful refresh is stored as a snapshot, so the chart can show
the last published data right away and survive a failing sample source.
The same backend keeps the unit preference.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all snapshots and preferences

Examples:
  # Check cache status
  weighttrend cache status

  # Clear cache after importing corrected samples
  weighttrend cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all snapshots and preferences",
	Long: `Delete all series snapshots and preferences from the configured backend.

Use this when:
- Samples were corrected and old snapshots should not be shown
- Cache may be stale or corrupted
- Testing refresh performance without snapshots

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the snapshot and preference tables

Examples:
  # Clear SQLite cache (default)
  weighttrend cache clear

  # Clear MySQL cache (set connection string via env variable)
  WEIGHTTREND_CACHE_BACKEND=mysql WEIGHTTREND_CACHE_DB_CONNECT="..." weighttrend cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The open SQLite handle must be released before its file is removed
		iocache.CloseStores()
		if err := iocache.ClearCache(cfg.CacheBackend, cacheFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the snapshot cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  weighttrend cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSnapshotStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("cache backend is not configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
