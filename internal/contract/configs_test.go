package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/weighttrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separateSQLite keeps the default cache and sample files apart in tests.
func separateSQLite(t *testing.T, input *ConfigRawInput) *ConfigRawInput {
	dir := t.TempDir()
	if input.CacheDBConnect == "" {
		input.CacheDBConnect = filepath.Join(dir, "cache.db")
	}
	if input.SampleDBConnect == "" {
		input.SampleDBConnect = filepath.Join(dir, "samples.db")
	}
	return input
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, separateSQLite(t, &ConfigRawInput{})))

	assert.Equal(t, schema.MonthSpan, cfg.Span)
	assert.Equal(t, schema.Unit(""), cfg.Unit)
	assert.True(t, cfg.Anchor.IsZero())
	assert.Equal(t, DefaultWindowPolicy(), cfg.Window)
	assert.Equal(t, DefaultGapPolicy(), cfg.Gaps)
	assert.Equal(t, 300*time.Second, cfg.CacheExpiry)
	assert.Equal(t, 40*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 6*time.Hour, cfg.ScrollBucket)
	assert.Equal(t, DefaultViewCacheEntries, cfg.ViewCacheEntries)
	assert.False(t, cfg.Refresh)
	assert.Equal(t, schema.SyntheticProvider, cfg.Provider)
	assert.Equal(t, DefaultSyntheticYears, cfg.SyntheticYears)
	assert.Equal(t, int64(DefaultSyntheticSeed), cfg.SyntheticSeed)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, schema.SQLiteBackend, cfg.SampleBackend)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultPrecision, cfg.Precision)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestProcessAndValidateRefresh(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, separateSQLite(t, &ConfigRawInput{Refresh: true})))
	assert.True(t, cfg.Refresh)
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       *ConfigRawInput
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:  "span and unit are case insensitive",
			input: &ConfigRawInput{Span: "YEAR", Unit: "Lbs"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.YearSpan, cfg.Span)
				assert.Equal(t, schema.Pound, cfg.Unit)
			},
		},
		{
			name:        "invalid span",
			input:       &ConfigRawInput{Span: "decade"},
			expectError: true,
		},
		{
			name:        "invalid unit",
			input:       &ConfigRawInput{Unit: "stone"},
			expectError: true,
		},
		{
			name:  "anchor as date",
			input: &ConfigRawInput{Anchor: "2024-02-29"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), cfg.Anchor)
			},
		},
		{
			name:        "invalid anchor",
			input:       &ConfigRawInput{Anchor: "someday"},
			expectError: true,
		},
		{
			name: "policy overrides",
			input: &ConfigRawInput{
				SmallSeriesThreshold: 10,
				BufferMultiplier:     2,
				MinWindowPoints:      5,
				MaxWindowPoints:      20,
				DensitySample:        3,
				MaxGapWeek:           "2 days",
				MaxGapYear:           "720h",
				CacheExpiry:          "1 minute",
				Debounce:             "100ms",
				ScrollBucket:         "1 hour",
				ViewCacheEntries:     8,
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, WindowPolicy{
					SmallSeriesThreshold: 10,
					BufferMultiplier:     2,
					MinPoints:            5,
					MaxPoints:            20,
					DensitySample:        3,
				}, cfg.Window)
				assert.Equal(t, 2*schema.Day, cfg.Gaps.Week)
				assert.Equal(t, DefaultMaxGapMonth, cfg.Gaps.Month)
				assert.Equal(t, 30*schema.Day, cfg.Gaps.Year)
				assert.Equal(t, time.Minute, cfg.CacheExpiry)
				assert.Equal(t, 100*time.Millisecond, cfg.Debounce)
				assert.Equal(t, time.Hour, cfg.ScrollBucket)
				assert.Equal(t, 8, cfg.ViewCacheEntries)
			},
		},
		{
			name:        "min window points above max",
			input:       &ConfigRawInput{MinWindowPoints: 3000},
			expectError: true,
		},
		{
			name:        "invalid gap",
			input:       &ConfigRawInput{MaxGapMonth: "a while"},
			expectError: true,
		},
		{
			name:        "negative debounce",
			input:       &ConfigRawInput{Debounce: "-5ms"},
			expectError: true,
		},
		{
			name:        "negative view cache entries",
			input:       &ConfigRawInput{ViewCacheEntries: -1},
			expectError: true,
		},
		{
			name:        "invalid provider",
			input:       &ConfigRawInput{Provider: "healthkit"},
			expectError: true,
		},
		{
			name:        "synthetic years out of range",
			input:       &ConfigRawInput{SyntheticYears: 51},
			expectError: true,
		},
		{
			name:        "height out of range",
			input:       &ConfigRawInput{Height: 4},
			expectError: true,
		},
		{
			name:        "sql provider without sample backend",
			input:       &ConfigRawInput{Provider: "sql", SampleBackend: "none"},
			expectError: true,
		},
		{
			name:        "invalid cache backend",
			input:       &ConfigRawInput{CacheBackend: "redis"},
			expectError: true,
		},
		{
			name:        "mysql backend requires connection string",
			input:       &ConfigRawInput{CacheBackend: "mysql"},
			expectError: true,
		},
		{
			name:  "postgres sample backend",
			input: &ConfigRawInput{SampleBackend: "postgresql", SampleDBConnect: "host=localhost dbname=weights"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.PostgreSQLBackend, cfg.SampleBackend)
			},
		},
		{
			name:        "shared sqlite file",
			input:       &ConfigRawInput{CacheDBConnect: "/tmp/same.db", SampleDBConnect: "/tmp/same.db"},
			expectError: true,
		},
		{
			name:        "parquet requires output file",
			input:       &ConfigRawInput{Output: "parquet"},
			expectError: true,
		},
		{
			name:        "invalid output",
			input:       &ConfigRawInput{Output: "xml"},
			expectError: true,
		},
		{
			name:        "invalid precision",
			input:       &ConfigRawInput{Precision: 9},
			expectError: true,
		},
		{
			name:  "color disabled",
			input: &ConfigRawInput{Color: "no"},
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.UseColors)
			},
		},
		{
			name:        "invalid color",
			input:       &ConfigRawInput{Color: "sometimes"},
			expectError: true,
		},
		{
			name:        "invalid log level",
			input:       &ConfigRawInput{LogLevel: "chatty"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := ProcessAndValidate(cfg, separateSQLite(t, tt.input))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite any", schema.SQLiteBackend, "", false},
		{"none any", schema.NoneBackend, "whatever", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/weights", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/weights", true},
		{"mysql missing db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=weights", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=weights", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGapPolicyMaxGap(t *testing.T) {
	g := DefaultGapPolicy()
	assert.Equal(t, 3*schema.Day, g.MaxGap(schema.WeekSpan))
	assert.Equal(t, 7*schema.Day, g.MaxGap(schema.MonthSpan))
	assert.Equal(t, 30*schema.Day, g.MaxGap(schema.YearSpan))
}

func TestParseUnit(t *testing.T) {
	for _, s := range []string{"kg", "KG", "kilograms"} {
		u, err := ParseUnit(s)
		require.NoError(t, err)
		assert.Equal(t, schema.Kilogram, u)
	}
	for _, s := range []string{"lb", "lbs", "Pounds"} {
		u, err := ParseUnit(s)
		require.NoError(t, err)
		assert.Equal(t, schema.Pound, u)
	}
	_, err := ParseUnit("")
	assert.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Span: schema.WeekSpan, Window: DefaultWindowPolicy()}
	clone := cfg.Clone()
	clone.Span = schema.YearSpan
	clone.Window.MaxPoints = 1
	assert.Equal(t, schema.WeekSpan, cfg.Span)
	assert.Equal(t, DefaultMaxWindowPoints, cfg.Window.MaxPoints)
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "weighttrend"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "weighttrend", profile.Prefix)
}

func TestRevalidateChartState(t *testing.T) {
	anchor := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cfg := &Config{Span: schema.YearSpan, Unit: schema.Pound, Anchor: anchor, Snap: true}

	require.NoError(t, RevalidateChartState(cfg, "", "", ""))
	assert.Equal(t, &Config{Span: schema.YearSpan, Unit: schema.Pound, Anchor: anchor, Snap: true}, cfg)

	require.NoError(t, RevalidateChartState(cfg, "WEEK", "kg", "2024-01-15"))
	assert.Equal(t, schema.WeekSpan, cfg.Span)
	assert.Equal(t, schema.Kilogram, cfg.Unit)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), cfg.Anchor)
	assert.True(t, cfg.Snap)

	assert.Error(t, RevalidateChartState(cfg.Clone(), "decade", "", ""))
	assert.Error(t, RevalidateChartState(cfg.Clone(), "", "stone", ""))
	assert.Error(t, RevalidateChartState(cfg.Clone(), "", "", "someday"))
}
