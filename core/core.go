// Package core has the windowing pipeline behind the weight chart and the
// command entry points that drive it.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/internal/iocache"
	"github.com/huangsam/weighttrend/internal/outwriter"
	"github.com/huangsam/weighttrend/internal/parquet"
	"github.com/huangsam/weighttrend/internal/provider"
	"github.com/huangsam/weighttrend/schema"
)

// ExecutorFunc defines the function signature for executing the chart commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// stdout receives plain progress messages of the commands.
var stdout io.Writer = os.Stdout

// ExecuteFrame computes the frame for the configured chart state and prints it.
// It serves as the main entry point for the 'frame' command.
func ExecuteFrame(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	frame, err := GetFrame(ctx, cfg, mgr, nil)
	if err != nil {
		return err
	}
	return writeFrame(cfg, frame, time.Since(start))
}

// GetFrame computes the frame for the configured chart state after
// scrolling by each step in turn. With steps, the returned frame is the
// debounced one that settles once scrolling stops.
func GetFrame(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, steps []time.Duration) (schema.Frame, error) {
	session := NewSession(cfg, mgr)
	defer session.Close()
	return session.Frame(ctx, cfg, steps)
}

// ExecuteFrameExport writes the points of the current frame to a Parquet file.
func ExecuteFrameExport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	exportCfg := cfg.Clone()
	exportCfg.Output = schema.ParquetOut
	return ExecuteFrame(ctx, exportCfg, mgr)
}

// ScrollExecutor returns an executor that scrolls the chart by each step in
// turn and prints the frame that settles once scrolling stops.
func ScrollExecutor(steps []time.Duration) ExecutorFunc {
	return func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
		start := time.Now()
		frame, err := GetFrame(ctx, cfg, mgr, steps)
		if err != nil {
			return err
		}
		return writeFrame(cfg, frame, time.Since(start))
	}
}

// scrollAndSettle applies every step and waits for the debounced frame of
// the final state.
func scrollAndSettle(ctx context.Context, chart *Chart, steps []time.Duration) (schema.Frame, error) {
	if len(steps) == 0 {
		return chart.Frame(), nil
	}
	frames := make(chan schema.Frame, len(steps))
	for _, step := range steps {
		chart.Scroll(step)
		chart.Schedule(func(f schema.Frame) { frames <- f })
	}

	final := chart.State()
	for {
		select {
		case <-ctx.Done():
			return schema.Frame{}, ctx.Err()
		case f := <-frames:
			if f.Anchor.Equal(final.Anchor) && f.Span == final.Span {
				return f, nil
			}
		}
	}
}

// ExecuteSeries refreshes the store and prints a summary of every series.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	summaries, err := GetSeriesSummaries(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter(cfg).WriteSeries(summaries)
}

// GetSeriesSummaries refreshes the store and describes every series.
func GetSeriesSummaries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.SeriesSummary, error) {
	session := NewSession(cfg, mgr)
	defer session.Close()
	return session.Summaries(ctx)
}

// ExecuteUnit persists the configured unit, or prints the stored preference
// when no unit was given.
func ExecuteUnit(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	prefs := preferenceStore(mgr)
	if cfg.Unit == "" {
		unit, err := LoadUnit(prefs)
		if err != nil {
			return fmt.Errorf("failed to read unit preference: %w", err)
		}
		_, _ = fmt.Fprintf(stdout, "Unit preference: %s\n", unit)
		return nil
	}
	if prefs == nil {
		return errors.New("preference store is not configured")
	}
	if err := SaveUnit(prefs, cfg.Unit); err != nil {
		return fmt.Errorf("failed to save unit preference: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "Unit preference set to %s\n", cfg.Unit)
	return nil
}

// ExecuteSampleSeed fills the sample store with the deterministic synthetic
// history described by the config.
func ExecuteSampleSeed(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store := sampleStore(mgr)
	if store == nil {
		return errors.New("sample store is not configured")
	}
	gen := provider.NewSynthetic(cfg.SyntheticSeed, cfg.SyntheticYears, cfg.HeightMeters)
	samples := gen.Samples()
	if err := store.InsertSamples(ctx, samples); err != nil {
		return fmt.Errorf("failed to seed samples: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "Seeded %d samples (seed %d, %d years)\n", len(samples), cfg.SyntheticSeed, cfg.SyntheticYears)
	return nil
}

// ExecuteSampleExport writes every raw sample to a Parquet file.
func ExecuteSampleExport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return iocache.ExecuteSampleExport(ctx, sampleStore(mgr), cfg.OutputFile, stdout)
}

// writeFrame prints the frame, or exports its points when Parquet output is selected.
func writeFrame(cfg *contract.Config, frame schema.Frame, elapsed time.Duration) error {
	if cfg.Output != schema.ParquetOut {
		return outwriter.NewOutWriter(cfg).WriteFrame(frame, elapsed)
	}
	points := parquet.ConvertFrame(frame)
	if err := parquet.WriteFrameParquet(points, cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "Exported %d points to: %s\n", len(points), cfg.OutputFile)
	return nil
}
