package contract

import (
	"fmt"

	"github.com/huangsam/weighttrend/schema"
)

// Keys used in the preference store.
const (
	UnitPreferenceKey = "unit"
)

// Table names used by the persistent stores.
const (
	SnapshotTable   = "series_snapshot"
	PreferenceTable = "preferences"
	SampleTable     = "weight_samples"
)

// SnapshotKey returns the snapshot cache key for one published series.
// The namespace separates snapshots taken from different sample sources.
func SnapshotKey(namespace string, span schema.Span, metric schema.Metric) string {
	return fmt.Sprintf("%s/%s/%s", namespace, span, metric)
}
