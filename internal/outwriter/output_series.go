package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// printSeries dispatches based on the output format configured.
func (ow *OutWriter) printSeries(summaries []schema.SeriesSummary) error {
	fmtFloat := createFormatter(ow.cfg.Precision)

	switch ow.cfg.Output {
	case schema.JSONOut:
		if err := ow.writeTo(ow.cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summaries)
		}, "Wrote JSON series"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := ow.writeTo(ow.cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSeries(w, summaries, fmtFloat)
		}, "Wrote CSV series"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := ow.printSeriesTable(summaries, fmtFloat); err != nil {
			return fmt.Errorf("error writing series table output: %w", err)
		}
	}
	return nil
}

// seriesRow formats one summary; empty series leave the value columns blank.
func seriesRow(s schema.SeriesSummary, fmtFloat func(float64) string) []string {
	row := []string{string(s.Span), string(s.Metric), strconv.Itoa(s.Count), "", "", "", ""}
	if s.Count == 0 {
		return row
	}
	row[3] = s.First.Format(contract.DateFormat)
	row[4] = s.Last.Format(contract.DateFormat)
	row[5] = fmtFloat(s.Range.Min)
	row[6] = fmtFloat(s.Range.Max)
	return row
}

func writeCSVSeries(w io.Writer, summaries []schema.SeriesSummary, fmtFloat func(float64) string) error {
	header := []string{"span", "metric", "count", "first", "last", "min", "max"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range summaries {
			if err := cw.Write(seriesRow(s, fmtFloat)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (ow *OutWriter) printSeriesTable(summaries []schema.SeriesSummary, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(ow.out)
	table.Header([]string{"Span", "Metric", "Count", "First", "Last", "Min", "Max"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		data = append(data, seriesRow(s, fmtFloat))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
