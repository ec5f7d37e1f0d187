package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/weighttrend/schema"
)

// Default values for configuration.
const (
	DefaultSmallSeriesThreshold = 1000
	DefaultBufferMultiplier     = 4.0
	DefaultMinWindowPoints      = 500
	DefaultMaxWindowPoints      = 2000
	DefaultDensitySample        = 50

	DefaultMaxGapWeek  = 3 * schema.Day
	DefaultMaxGapMonth = 7 * schema.Day
	DefaultMaxGapYear  = 30 * schema.Day

	DefaultCacheExpiry      = 300 * time.Second
	DefaultDebounce         = 40 * time.Millisecond
	DefaultScrollBucket     = 6 * time.Hour
	DefaultViewCacheEntries = 64

	DefaultSyntheticYears = 10
	DefaultSyntheticSeed  = 42
	DefaultHeightMeters   = 1.78

	DefaultPrecision = 1
	DefaultLogLevel  = "warn"
)

// DateFormat is the short calendar date representation accepted for anchors.
const DateFormat = "2006-01-02"

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// WindowPolicy holds the tunable constants of the progressive windower.
type WindowPolicy struct {
	SmallSeriesThreshold int     // series at or below this length are not windowed
	BufferMultiplier     float64 // multiple of the visible duration kept around the anchor
	MinPoints            int     // lower clamp of the window size
	MaxPoints            int     // upper clamp of the window size
	DensitySample        int     // neighbors sampled on each side for density
}

// DefaultWindowPolicy returns the empirically tuned window policy.
func DefaultWindowPolicy() WindowPolicy {
	return WindowPolicy{
		SmallSeriesThreshold: DefaultSmallSeriesThreshold,
		BufferMultiplier:     DefaultBufferMultiplier,
		MinPoints:            DefaultMinWindowPoints,
		MaxPoints:            DefaultMaxWindowPoints,
		DensitySample:        DefaultDensitySample,
	}
}

// GapPolicy holds the maximum gap per span before a line is broken.
type GapPolicy struct {
	Week  time.Duration
	Month time.Duration
	Year  time.Duration
}

// DefaultGapPolicy returns the default segmentation thresholds.
func DefaultGapPolicy() GapPolicy {
	return GapPolicy{
		Week:  DefaultMaxGapWeek,
		Month: DefaultMaxGapMonth,
		Year:  DefaultMaxGapYear,
	}
}

// MaxGap returns the threshold for the span.
func (g GapPolicy) MaxGap(span schema.Span) time.Duration {
	switch span {
	case schema.WeekSpan:
		return g.Week
	case schema.YearSpan:
		return g.Year
	default:
		return g.Month
	}
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Span   schema.Span
	Unit   schema.Unit // empty means use the stored preference
	Anchor time.Time   // zero means the latest sample
	Snap   bool

	Window           WindowPolicy
	Gaps             GapPolicy
	CacheExpiry      time.Duration
	Debounce         time.Duration
	ScrollBucket     time.Duration
	ViewCacheEntries int
	Refresh          bool // fetch even while published data is fresh

	Provider       schema.ProviderKind
	SyntheticYears int
	SyntheticSeed  int64
	HeightMeters   float64

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	SampleBackend   schema.DatabaseBackend
	SampleDBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	LogLevel string
	LogJSON  bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Chart state ---
	Span   string `mapstructure:"span"`
	Unit   string `mapstructure:"unit"`
	Anchor string `mapstructure:"anchor"`
	Snap   bool   `mapstructure:"snap"`

	// --- Pipeline policy ---
	SmallSeriesThreshold int     `mapstructure:"small-series-threshold"`
	BufferMultiplier     float64 `mapstructure:"buffer-multiplier"`
	MinWindowPoints      int     `mapstructure:"min-window-points"`
	MaxWindowPoints      int     `mapstructure:"max-window-points"`
	DensitySample        int     `mapstructure:"density-sample"`
	MaxGapWeek           string  `mapstructure:"max-gap-week"`
	MaxGapMonth          string  `mapstructure:"max-gap-month"`
	MaxGapYear           string  `mapstructure:"max-gap-year"`
	CacheExpiry          string  `mapstructure:"cache-expiry"`
	Debounce             string  `mapstructure:"debounce"`
	ScrollBucket         string  `mapstructure:"scroll-bucket"`
	ViewCacheEntries     int     `mapstructure:"view-cache-entries"`
	Refresh              bool    `mapstructure:"refresh"`

	// --- Sample source ---
	Provider       string  `mapstructure:"provider"`
	SyntheticYears int     `mapstructure:"synthetic-years"`
	Seed           int64   `mapstructure:"seed"`
	Height         float64 `mapstructure:"height"`

	// --- Persistence ---
	CacheBackend    string `mapstructure:"cache-backend"`
	CacheDBConnect  string `mapstructure:"cache-db-connect"`
	SampleBackend   string `mapstructure:"sample-backend"`
	SampleDBConnect string `mapstructure:"sample-db-connect"`

	// --- Output ---
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	// --- Logging ---
	LogLevel string `mapstructure:"log-level"`
	LogJSON  bool   `mapstructure:"log-json"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateChartState(cfg, input); err != nil {
		return err
	}
	if err := processPolicies(cfg, input); err != nil {
		return err
	}
	cfg.Refresh = input.Refresh
	if err := validateProvider(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return validateOutput(cfg, input)
}

// validateChartState processes span, unit and anchor.
func validateChartState(cfg *Config, input *ConfigRawInput) error {
	cfg.Span = schema.MonthSpan
	if input.Span != "" {
		cfg.Span = schema.Span(strings.ToLower(input.Span))
		if _, ok := schema.ValidSpans[cfg.Span]; !ok {
			return fmt.Errorf("invalid span '%s'. must be week, month, year", input.Span)
		}
	}

	cfg.Unit = ""
	if input.Unit != "" {
		unit, err := ParseUnit(input.Unit)
		if err != nil {
			return err
		}
		cfg.Unit = unit
	}

	cfg.Anchor = time.Time{}
	if input.Anchor != "" {
		anchor, err := ParseAnchor(input.Anchor, time.Now())
		if err != nil {
			return fmt.Errorf("invalid anchor: %w", err)
		}
		cfg.Anchor = anchor
	}
	cfg.Snap = input.Snap
	return nil
}

// RevalidateChartState applies chart state overrides to an already validated config.
// Empty values keep the current setting.
func RevalidateChartState(cfg *Config, span, unit, anchor string) error {
	prev := *cfg
	if err := validateChartState(cfg, &ConfigRawInput{Span: span, Unit: unit, Anchor: anchor, Snap: prev.Snap}); err != nil {
		return err
	}
	if span == "" {
		cfg.Span = prev.Span
	}
	if unit == "" {
		cfg.Unit = prev.Unit
	}
	if anchor == "" {
		cfg.Anchor = prev.Anchor
	}
	return nil
}

// processPolicies parses the tunable pipeline constants, falling back to defaults for zero values.
func processPolicies(cfg *Config, input *ConfigRawInput) error {
	cfg.Window = DefaultWindowPolicy()
	if input.SmallSeriesThreshold > 0 {
		cfg.Window.SmallSeriesThreshold = input.SmallSeriesThreshold
	}
	if input.BufferMultiplier > 0 {
		cfg.Window.BufferMultiplier = input.BufferMultiplier
	}
	if input.MinWindowPoints > 0 {
		cfg.Window.MinPoints = input.MinWindowPoints
	}
	if input.MaxWindowPoints > 0 {
		cfg.Window.MaxPoints = input.MaxWindowPoints
	}
	if input.DensitySample > 0 {
		cfg.Window.DensitySample = input.DensitySample
	}
	if cfg.Window.MinPoints > cfg.Window.MaxPoints {
		return fmt.Errorf("min-window-points (%d) cannot exceed max-window-points (%d)", cfg.Window.MinPoints, cfg.Window.MaxPoints)
	}

	cfg.Gaps = DefaultGapPolicy()
	gapFields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"max-gap-week", input.MaxGapWeek, &cfg.Gaps.Week},
		{"max-gap-month", input.MaxGapMonth, &cfg.Gaps.Month},
		{"max-gap-year", input.MaxGapYear, &cfg.Gaps.Year},
	}
	for _, f := range gapFields {
		if err := parsePositiveDuration(f.name, f.raw, f.dst); err != nil {
			return err
		}
	}

	cfg.CacheExpiry = DefaultCacheExpiry
	if err := parsePositiveDuration("cache-expiry", input.CacheExpiry, &cfg.CacheExpiry); err != nil {
		return err
	}
	cfg.Debounce = DefaultDebounce
	if err := parsePositiveDuration("debounce", input.Debounce, &cfg.Debounce); err != nil {
		return err
	}
	cfg.ScrollBucket = DefaultScrollBucket
	if err := parsePositiveDuration("scroll-bucket", input.ScrollBucket, &cfg.ScrollBucket); err != nil {
		return err
	}

	cfg.ViewCacheEntries = DefaultViewCacheEntries
	if input.ViewCacheEntries < 0 {
		return fmt.Errorf("view-cache-entries cannot be negative (received %d)", input.ViewCacheEntries)
	}
	if input.ViewCacheEntries > 0 {
		cfg.ViewCacheEntries = input.ViewCacheEntries
	}
	return nil
}

// parsePositiveDuration parses raw into dst when raw is set.
func parsePositiveDuration(name, raw string, dst *time.Duration) error {
	if raw == "" {
		return nil
	}
	d, err := ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive (received %s)", name, raw)
	}
	*dst = d
	return nil
}

// validateProvider processes the sample source settings.
func validateProvider(cfg *Config, input *ConfigRawInput) error {
	cfg.Provider = schema.SyntheticProvider
	if input.Provider != "" {
		cfg.Provider = schema.ProviderKind(strings.ToLower(input.Provider))
		if _, ok := schema.ValidProviders[cfg.Provider]; !ok {
			return fmt.Errorf("invalid provider '%s'. must be synthetic, sql", input.Provider)
		}
	}

	cfg.SyntheticYears = DefaultSyntheticYears
	if input.SyntheticYears < 0 || input.SyntheticYears > 50 {
		return fmt.Errorf("synthetic-years must be between 1 and 50 (received %d)", input.SyntheticYears)
	}
	if input.SyntheticYears > 0 {
		cfg.SyntheticYears = input.SyntheticYears
	}

	cfg.SyntheticSeed = DefaultSyntheticSeed
	if input.Seed != 0 {
		cfg.SyntheticSeed = input.Seed
	}

	cfg.HeightMeters = DefaultHeightMeters
	if input.Height < 0 || input.Height > 3 {
		return fmt.Errorf("height must be between 0 and 3 meters (received %.2f)", input.Height)
	}
	if input.Height > 0 {
		cfg.HeightMeters = input.Height
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and sample backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.SQLiteBackend
	if input.CacheBackend != "" {
		cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Sample Backend Validation ---
	cfg.SampleBackend = schema.SQLiteBackend
	if input.SampleBackend != "" {
		cfg.SampleBackend = schema.DatabaseBackend(strings.ToLower(input.SampleBackend))
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.SampleBackend]; !ok {
		return fmt.Errorf("invalid sample backend '%s'. must be sqlite, mysql, postgresql, none", input.SampleBackend)
	}
	cfg.SampleDBConnect = input.SampleDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SampleBackend, cfg.SampleDBConnect); err != nil {
		return err
	}
	if cfg.Provider == schema.SQLProvider && cfg.SampleBackend == schema.NoneBackend {
		return fmt.Errorf("the sql provider needs a sample backend other than none")
	}

	// Cache and samples share a SQLite file only when explicitly configured so.
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.SampleBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		samplePath := cfg.SampleDBConnect
		if samplePath == "" {
			samplePath = GetSampleDBFilePath()
		}
		if cachePath == samplePath {
			return fmt.Errorf("cache and sample storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateOutput processes output and logging settings.
func validateOutput(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors := true
	if input.Color != "" {
		parsed, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		colors = parsed
	}
	cfg.UseColors = colors

	cfg.Precision = DefaultPrecision
	if input.Precision != 0 {
		if input.Precision < 1 || input.Precision > 4 {
			return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
		}
		cfg.Precision = input.Precision
	}

	cfg.Output = schema.TextOut
	if input.Output != "" {
		cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
		if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
			return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
		}
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.LogLevel = DefaultLogLevel
	if input.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(input.LogLevel)
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	cfg.LogJSON = input.LogJSON
	return nil
}

// ParseUnit parses a unit name, accepting common spellings.
func ParseUnit(s string) (schema.Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg", "kgs", "kilogram", "kilograms":
		return schema.Kilogram, nil
	case "lb", "lbs", "pound", "pounds":
		return schema.Pound, nil
	default:
		return "", fmt.Errorf("invalid unit '%s'. must be kg, lb", s)
	}
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
