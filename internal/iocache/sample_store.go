package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

// defaultSampleSource is recorded when a sample carries no source.
const defaultSampleSource = "manual"

// SampleStoreImpl stores raw weight samples in a migrated SQL table.
type SampleStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.SampleStore = &SampleStoreImpl{} // Compile-time check

// NewSampleStore opens the sample store and migrates it to the latest schema.
func NewSampleStore(backend schema.DatabaseBackend, connStr string) (*SampleStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &SampleStoreImpl{backend: backend, connStr: connStr}, nil
	}

	db, err := openDatabase(backend, connStr, contract.GetSampleDBFilePath())
	if err != nil {
		return nil, err
	}

	// The migrate instance is not closed here since that would close db
	m, err := newMigrator(db, backend)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := migrateTo(m, -1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate sample store: %w", err)
	}

	return &SampleStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// insertQuery returns the upsert statement for one sample.
func (ss *SampleStoreImpl) insertQuery() string {
	table := quoteTableName(contract.SampleTable, ss.backend)
	values := placeholders(ss.backend, 3)
	switch ss.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (sample_ts, kilograms, source) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE kilograms = new.kilograms, source = new.source`, table, values)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf(`INSERT INTO %s (sample_ts, kilograms, source) VALUES (%s)
			ON CONFLICT (sample_ts) DO UPDATE SET kilograms = excluded.kilograms, source = excluded.source`, table, values)
	}
}

// InsertSamples stores samples in one transaction. A later sample replaces
// an earlier one at the same second.
func (ss *SampleStoreImpl) InsertSamples(ctx context.Context, samples []schema.Sample) error {
	if ss.db == nil || len(samples) == 0 {
		return nil
	}

	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, ss.insertQuery())
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range samples {
		source := s.Source
		if source == "" {
			source = defaultSampleSource
		}
		if _, err := stmt.ExecContext(ctx, s.Timestamp.Unix(), s.Kilograms, source); err != nil {
			return fmt.Errorf("failed to insert sample at %s: %w", s.Timestamp.Format(time.RFC3339), err)
		}
	}
	return tx.Commit()
}

// ListSamples returns samples in [start, end) ordered by timestamp.
func (ss *SampleStoreImpl) ListSamples(ctx context.Context, start, end time.Time) ([]schema.Sample, error) {
	if ss.db == nil {
		return nil, nil
	}

	var conds []string
	var args []any
	if !start.IsZero() {
		args = append(args, start.Unix())
		conds = append(conds, "sample_ts >= "+placeholder(ss.backend, len(args)))
	}
	if !end.IsZero() {
		args = append(args, end.Unix())
		conds = append(conds, "sample_ts < "+placeholder(ss.backend, len(args)))
	}

	query := fmt.Sprintf("SELECT sample_ts, kilograms, source FROM %s", quoteTableName(contract.SampleTable, ss.backend))
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY sample_ts"

	rows, err := ss.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var samples []schema.Sample
	for rows.Next() {
		var ts int64
		var s schema.Sample
		if err := rows.Scan(&ts, &s.Kilograms, &s.Source); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		s.Timestamp = time.Unix(ts, 0).UTC()
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// schemaVersion reads the applied migration version. Zero means unknown.
func (ss *SampleStoreImpl) schemaVersion() uint {
	var version int64
	if err := ss.db.QueryRow("SELECT version FROM " + migrationsTable + " LIMIT 1").Scan(&version); err != nil {
		return 0
	}
	return uint(version)
}

// GetStatus returns status information about the sample store.
func (ss *SampleStoreImpl) GetStatus() (schema.SampleStatus, error) {
	status := schema.SampleStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}
	if ss.db == nil {
		return status, nil
	}
	status.SchemaVersion = ss.schemaVersion()

	table := quoteTableName(contract.SampleTable, ss.backend)
	if err := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&status.TotalSamples); err != nil {
		return status, fmt.Errorf("failed to count samples: %w", err)
	}
	if status.TotalSamples == 0 {
		return status, nil
	}

	var firstTs, lastTs int64
	if err := ss.db.QueryRow(fmt.Sprintf("SELECT MIN(sample_ts), MAX(sample_ts) FROM %s", table)).Scan(&firstTs, &lastTs); err != nil {
		return status, fmt.Errorf("failed to get sample range: %w", err)
	}
	status.FirstSample = time.Unix(firstTs, 0).UTC()
	status.LastSample = time.Unix(lastTs, 0).UTC()
	status.TableSizeBytes = tableSizeBytes(ss.db, ss.backend, ss.connStr, contract.SampleTable, status.TotalSamples)
	return status, nil
}

// Close closes the underlying DB connection.
func (ss *SampleStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}
