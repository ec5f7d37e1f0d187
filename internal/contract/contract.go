// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/weighttrend/schema"
)

// ErrNotFound is returned by stores when a key or row does not exist.
var ErrNotFound = errors.New("not found")

// Provider defines the source of raw time-series bins per span.
// Health-data facades and synthetic generators both satisfy it, which allows
// the store to be tested without a real data source.
//
// Bins must be returned sorted ascending with unique timestamps. A failing
// call aborts only the refresh that issued it.
type Provider interface {
	// Bins returns the weight bins (kilograms) for the span.
	Bins(ctx context.Context, span schema.Span) ([]schema.Bin, error)

	// BMIBins returns the BMI bins for the span.
	BMIBins(ctx context.Context, span schema.Span) ([]schema.Bin, error)
}

// PreferenceStore is a schemaless string key-value store for user preferences.
type PreferenceStore interface {
	// Get returns the stored value, or ErrNotFound.
	Get(key string) (string, error)

	// Set stores or replaces the value.
	Set(key, value string) error
}

// CacheStore defines the interface for snapshot data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// SampleStore defines the interface for raw weight sample storage.
type SampleStore interface {
	// InsertSamples stores samples, replacing any sample at the same timestamp.
	InsertSamples(ctx context.Context, samples []schema.Sample) error

	// ListSamples returns samples in [start, end) ordered by timestamp.
	// Zero times leave that side of the interval open.
	ListSamples(ctx context.Context, start, end time.Time) ([]schema.Sample, error)

	// GetStatus returns status information about the sample store.
	GetStatus() (schema.SampleStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// CacheManager defines the interface for managing the persistent stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetSnapshotStore() CacheStore
	GetPreferenceStore() PreferenceStore
	GetSampleStore() SampleStore
}
