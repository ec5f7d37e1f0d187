package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Trend label constants.
const (
	GainingValue = "Gaining"
	LosingValue  = "Losing"
	SteadyValue  = "Steady"
)

// Color variables for console output.
var (
	GainingColor = color.New(color.FgRed, color.Bold)
	LosingColor  = color.New(color.FgGreen, color.Bold)
	SteadyColor  = color.New(color.FgCyan)
	HeaderColor  = color.New(color.FgHiWhite, color.Bold)
)

// steadyBand is the absolute change below which a trend counts as steady.
const steadyBand = 0.5

// GetPlainLabel returns a plain text label describing the change between
// the first and last values of a series.
func GetPlainLabel(delta float64) string {
	switch {
	case delta >= steadyBand:
		return GainingValue
	case delta <= -steadyBand:
		return LosingValue
	default:
		return SteadyValue
	}
}

// GetColorLabel returns a colored text label for console output.
func GetColorLabel(delta float64) string {
	text := GetPlainLabel(delta)

	switch text {
	case GainingValue:
		return GainingColor.Sprint(text)
	case LosingValue:
		return LosingColor.Sprint(text)
	default:
		return SteadyColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// log is the process-wide logger. Components derive entries from it via Logger.
var log = logrus.New()

// SetupLogging configures the process-wide logger.
func SetupLogging(level string, jsonFormat bool, out io.Writer) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	if out != nil {
		log.SetOutput(out)
	}
	if jsonFormat {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return nil
}

// ParseLogLevel parses a logrus level name.
func ParseLogLevel(level string) (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.WarnLevel, fmt.Errorf("invalid log level '%s': %w", level, err)
	}
	return lvl, nil
}

// Logger returns a log entry tagged with the component name.
func Logger(component string) *logrus.Entry {
	return log.WithField("component", component)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	log.WithError(err).Error(msg)
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	log.WithError(err).Warn(msg)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for snapshot and preference storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".weighttrend_cache.db"
	}
	return filepath.Join(homeDir, ".weighttrend_cache.db")
}

// GetSampleDBFilePath returns the path to the SQLite DB file for raw sample storage.
func GetSampleDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".weighttrend_samples.db"
	}
	return filepath.Join(homeDir, ".weighttrend_samples.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
