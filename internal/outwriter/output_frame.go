package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// frameRow is one line of the frame table or CSV.
type frameRow struct {
	metric  schema.Metric
	segment int
	bins    []schema.Bin
}

// frameRows flattens the frame segments in display order.
func frameRows(frame schema.Frame) []frameRow {
	rows := make([]frameRow, 0, len(frame.WeightSegments)+len(frame.BMISegments))
	for i, seg := range frame.WeightSegments {
		rows = append(rows, frameRow{metric: schema.WeightMetric, segment: i + 1, bins: seg})
	}
	for i, seg := range frame.BMISegments {
		rows = append(rows, frameRow{metric: schema.BMIMetric, segment: i + 1, bins: seg})
	}
	return rows
}

// printFrame dispatches based on the output format configured.
func (ow *OutWriter) printFrame(frame schema.Frame, elapsed time.Duration) error {
	fmtFloat := createFormatter(ow.cfg.Precision)

	switch ow.cfg.Output {
	case schema.JSONOut:
		if err := ow.writeTo(ow.cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, frame)
		}, "Wrote JSON frame"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := ow.writeTo(ow.cfg.OutputFile, func(w io.Writer) error {
			return writeCSVFrame(w, frame, fmtFloat)
		}, "Wrote CSV frame"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := ow.printFrameTable(frame, fmtFloat, elapsed); err != nil {
			return fmt.Errorf("error writing frame table output: %w", err)
		}
	}
	return nil
}

// writeCSVFrame writes one CSV row per plotted point.
func writeCSVFrame(w io.Writer, frame schema.Frame, fmtFloat func(float64) string) error {
	header := []string{"metric", "segment", "timestamp", "value"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range frameRows(frame) {
			for _, b := range r.bins {
				row := []string{
					string(r.metric),
					strconv.Itoa(r.segment),
					b.Timestamp.Format(contract.DateTimeFormat),
					fmtFloat(b.Value),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// printFrameTable prints one table row per segment with a sparkline of its shape.
func (ow *OutWriter) printFrameTable(frame schema.Frame, fmtFloat func(float64) string, elapsed time.Duration) error {
	table := tablewriter.NewWriter(ow.out)
	table.Header([]string{"Metric", "Segment", "Start", "End", "Points", "Min", "Max", "Trend", "Shape"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	width := sparkWidth(ow.cfg, ow.out)
	var data [][]string
	for _, r := range frameRows(frame) {
		if len(r.bins) == 0 {
			continue
		}
		lo, hi := r.bins[0].Value, r.bins[0].Value
		for _, b := range r.bins {
			lo = min(lo, b.Value)
			hi = max(hi, b.Value)
		}
		delta := r.bins[len(r.bins)-1].Value - r.bins[0].Value
		label := contract.GetPlainLabel(delta)
		if ow.cfg.UseColors {
			label = contract.GetColorLabel(delta)
		}
		data = append(data, []string{
			string(r.metric),
			strconv.Itoa(r.segment),
			r.bins[0].Timestamp.Format(contract.DateFormat),
			r.bins[len(r.bins)-1].Timestamp.Format(contract.DateFormat),
			strconv.Itoa(len(r.bins)),
			fmtFloat(lo),
			fmtFloat(hi),
			label,
			sparkline(r.bins, frame.YDomain, width),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(ow.out, "Span %s | Unit %s | Anchor %s | Domain [%s, %s] | %d points in %d segments. Computed in %v\n",
		frame.Span, frame.Unit, frame.Anchor.Format(contract.DateFormat),
		fmtFloat(frame.YDomain.Min), fmtFloat(frame.YDomain.Max),
		frame.PointCount(), len(frame.WeightSegments), elapsed)
	return err
}
