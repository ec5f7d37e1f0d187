// Package parquet provides data structures and functions for exporting frames
// and raw samples to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/weighttrend/schema"
	"github.com/parquet-go/parquet-go"
)

// FramePoint is one plotted point of a chart frame.
type FramePoint struct {
	// Span is the chart span of the frame (week, month, year)
	Span string `parquet:"span,snappy,dict"`

	// Unit is the display unit of weight values
	Unit string `parquet:"unit,snappy,dict"`

	// Anchor is the frame anchor the window was centered on
	Anchor time.Time `parquet:"anchor,snappy"`

	// Metric is weight or bmi
	Metric string `parquet:"metric,snappy,dict"`

	// Segment is the 1-based index of the segment within its metric
	Segment int32 `parquet:"segment,snappy"`

	// Timestamp is the bin timestamp
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// Value is the plotted value; BMI values are normalized onto the weight axis
	Value float64 `parquet:"value,snappy"`
}

// Sample is a raw weight measurement.
type Sample struct {
	Timestamp time.Time `parquet:"timestamp,snappy"`
	Kilograms float64   `parquet:"kilograms,snappy"`
	Source    string    `parquet:"source,snappy,dict"`
}

// ConvertFrame flattens a frame into one record per plotted point.
func ConvertFrame(frame schema.Frame) []FramePoint {
	var out []FramePoint
	add := func(metric schema.Metric, segments [][]schema.Bin) {
		for i, seg := range segments {
			for _, b := range seg {
				out = append(out, FramePoint{
					Span:      string(frame.Span),
					Unit:      string(frame.Unit),
					Anchor:    frame.Anchor,
					Metric:    string(metric),
					Segment:   int32(i + 1),
					Timestamp: b.Timestamp,
					Value:     b.Value,
				})
			}
		}
	}
	add(schema.WeightMetric, frame.WeightSegments)
	add(schema.BMIMetric, frame.BMISegments)
	return out
}

// ConvertSamples converts raw samples for Parquet export.
func ConvertSamples(samples []schema.Sample) []Sample {
	out := make([]Sample, len(samples))
	for i, s := range samples {
		out[i] = Sample{Timestamp: s.Timestamp, Kilograms: s.Kilograms, Source: s.Source}
	}
	return out
}

// WriteFrameParquet writes frame points to a Parquet file.
func WriteFrameParquet(data []FramePoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSamplesParquet writes raw samples to a Parquet file.
func WriteSamplesParquet(data []Sample, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows with a schema inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer; its error matters
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}
