package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable is where golang-migrate records the applied version.
const migrationsTable = "schema_migrations"

// LatestSampleSchemaVersion is the newest embedded migration version.
const LatestSampleSchemaVersion uint = 2

// MigrationResult describes the outcome of a sample store migration.
type MigrationResult struct {
	From    uint `json:"from"`
	To      uint `json:"to"`
	Changed bool `json:"changed"`
}

// String renders the result for the CLI.
func (r MigrationResult) String() string {
	if !r.Changed {
		return fmt.Sprintf("No migration needed. Database is already at version %d", r.To)
	}
	return fmt.Sprintf("Successfully migrated from version %d to version %d", r.From, r.To)
}

// newMigrator builds a migrate instance on an open connection.
// Closing the returned instance closes db as well.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error

	switch backend {
	case schema.SQLiteBackend:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite migrate driver: %w", err)
		}

	case schema.MySQLBackend:
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create MySQL migrate driver: %w", err)
		}

	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL migrate driver: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Get the migrations subdirectory
	migrationFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}

	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "weighttrend", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// migrateTo moves the schema to targetVersion on an open migrate instance.
//   - If targetVersion < 0, it migrates to the latest version.
//   - If targetVersion == 0, it rolls back all migrations.
//   - If targetVersion > 0, it migrates to the specified version.
func migrateTo(m *migrate.Migrate, targetVersion int) (MigrationResult, error) {
	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return MigrationResult{}, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	result := MigrationResult{From: currentVersion}
	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return result, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	newVersion, _, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to read migration version: %w", verr)
	}
	result.To = newVersion
	result.Changed = result.To != result.From
	return result, nil
}

// MigrateSamples runs database migrations for the sample store.
// See migrateTo for the meaning of targetVersion.
func MigrateSamples(backend schema.DatabaseBackend, connStr string, targetVersion int) (MigrationResult, error) {
	if backend == schema.NoneBackend {
		return MigrationResult{}, fmt.Errorf("migrations are not supported for NoneBackend")
	}
	if targetVersion > int(LatestSampleSchemaVersion) {
		return MigrationResult{}, fmt.Errorf("unknown schema version %d (latest is %d)", targetVersion, LatestSampleSchemaVersion)
	}

	db, err := openDatabase(backend, connStr, contract.GetSampleDBFilePath())
	if err != nil {
		return MigrationResult{}, err
	}

	m, err := newMigrator(db, backend)
	if err != nil {
		_ = db.Close()
		return MigrationResult{}, err
	}
	defer func() { _, _ = m.Close() }()

	result, err := migrateTo(m, targetVersion)
	if err != nil {
		return result, err
	}
	contract.Logger("iocache").WithField("from", result.From).WithField("to", result.To).Debug("sample schema migrated")
	return result, nil
}
