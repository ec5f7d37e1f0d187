package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/internal/parquet"
)

// ExecuteSampleExport exports every raw sample in the store to a Parquet file.
func ExecuteSampleExport(ctx context.Context, store contract.SampleStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("sample store is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get sample status: %w", err)
	}
	if status.TotalSamples == 0 {
		return errors.New("no samples found to export")
	}
	_, _ = fmt.Fprintf(w, "Exporting %d samples from %s backend...\n", status.TotalSamples, status.Backend)

	samples, err := store.ListSamples(ctx, time.Time{}, time.Time{})
	if err != nil {
		return fmt.Errorf("failed to retrieve samples: %w", err)
	}

	records := parquet.ConvertSamples(samples)
	if err := parquet.WriteSamplesParquet(records, outputFile); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d samples to: %s\n", len(records), outputFile)
	return nil
}
