package schema

// Custom string types for type safety.
type (
	// Span represents the selected chart time granularity.
	Span string

	// Metric represents one of the charted body metrics.
	Metric string

	// Unit represents the display unit for the weight metric.
	Unit string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the stores.
	DatabaseBackend string

	// ProviderKind represents the source of raw samples.
	ProviderKind string
)

// All spans supported.
const (
	WeekSpan  Span = "week"
	MonthSpan Span = "month" // default
	YearSpan  Span = "year"
)

// All metrics supported.
const (
	WeightMetric Metric = "weight"
	BMIMetric    Metric = "bmi"
)

// All units supported.
const (
	Kilogram Unit = "kg" // default
	Pound    Unit = "lb"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All sample providers supported.
const (
	SyntheticProvider ProviderKind = "synthetic" // default
	SQLProvider       ProviderKind = "sql"
)

// poundsPerKilogram is the multiplicative factor from kilograms to pounds.
const poundsPerKilogram = 2.20462

// AllSpans lists every span in display order.
var AllSpans = []Span{WeekSpan, MonthSpan, YearSpan}

// AllMetrics lists every metric in display order.
var AllMetrics = []Metric{WeightMetric, BMIMetric}

// ValidSpans lists all valid spans.
var ValidSpans = map[Span]struct{}{
	WeekSpan:  {},
	MonthSpan: {},
	YearSpan:  {},
}

// ValidUnits lists all valid units.
var ValidUnits = map[Unit]struct{}{
	Kilogram: {},
	Pound:    {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidProviders lists all valid sample providers.
var ValidProviders = map[ProviderKind]struct{}{
	SyntheticProvider: {},
	SQLProvider:       {},
}
