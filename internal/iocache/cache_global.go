package iocache

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetCacheDBFilePath returns the path to the SQLite DB file for snapshots and preferences.
func GetCacheDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetSampleDBFilePath returns the path to the SQLite DB file for raw samples.
func GetSampleDBFilePath() string {
	return contract.GetSampleDBFilePath()
}

// InitStores initializes the global manager with the snapshot, preference and sample stores.
// An empty cacheBackend skips the snapshot and preference stores.
// An empty sampleBackend skips the sample store.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, sampleBackend schema.DatabaseBackend, sampleConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var (
			snapshots   *CacheStoreImpl
			preferences *PreferenceStoreImpl
			samples     *SampleStoreImpl
			err         error
		)

		if cacheBackend != "" {
			snapshots, err = NewCacheStore(contract.SnapshotTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize snapshot store: %w", err)
				return
			}
			preferences, err = NewPreferenceStore(cacheBackend, cacheConnStr)
			if err != nil {
				_ = snapshots.Close()
				initErr = fmt.Errorf("failed to initialize preference store: %w", err)
				return
			}
		}

		if sampleBackend != "" {
			samples, err = NewSampleStore(sampleBackend, sampleConnStr)
			if err != nil {
				if snapshots != nil {
					_ = snapshots.Close()
					_ = preferences.Close()
				}
				initErr = fmt.Errorf("failed to initialize sample store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		// Typed nil pointers must not leak into the interface fields
		if snapshots != nil {
			Manager.snapshots = snapshots
			Manager.preferences = preferences
		}
		if samples != nil {
			Manager.samples = samples
		}
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.snapshots != nil {
			_ = Manager.snapshots.Close()
		}
		if closer, ok := Manager.preferences.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		if Manager.samples != nil {
			_ = Manager.samples.Close()
		}
		Manager.snapshots = nil
		Manager.preferences = nil
		Manager.samples = nil
	})
}

// ClearCache clears snapshots and preferences for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, contract.SnapshotTable, contract.PreferenceTable)
}

// ClearSamples removes every raw sample along with the migration history,
// so the next open recreates the schema from scratch.
func ClearSamples(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, contract.SampleTable, migrationsTable)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range tables {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}
