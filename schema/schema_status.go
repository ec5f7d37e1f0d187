package schema

import "time"

// CacheStatus represents the status of the snapshot cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// SampleStatus represents the status of the raw sample store.
type SampleStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	SchemaVersion  uint      `json:"schema_version"`
	TotalSamples   int       `json:"total_samples"`
	FirstSample    time.Time `json:"first_sample"`
	LastSample     time.Time `json:"last_sample"`
	TableSizeBytes int64     `json:"table_size_bytes"`
}
