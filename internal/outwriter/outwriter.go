// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"os"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the output formats and keeps the core logic free of I/O.
type OutWriter struct {
	cfg    *contract.Config
	out    io.Writer // results when no output file is set
	status io.Writer // progress and file notices
}

// NewOutWriter creates an output writer for stdout and stderr.
func NewOutWriter(cfg *contract.Config) *OutWriter {
	return NewOutWriterTo(cfg, os.Stdout, os.Stderr)
}

// NewOutWriterTo creates an output writer for the given writers.
func NewOutWriterTo(cfg *contract.Config, out, status io.Writer) *OutWriter {
	return &OutWriter{cfg: cfg, out: out, status: status}
}

// WriteFrame prints one chart frame using the configured output format.
func (ow *OutWriter) WriteFrame(frame schema.Frame, elapsed time.Duration) error {
	return ow.printFrame(frame, elapsed)
}

// WriteSeries prints the stored series summaries using the configured output format.
func (ow *OutWriter) WriteSeries(summaries []schema.SeriesSummary) error {
	return ow.printSeries(summaries)
}
