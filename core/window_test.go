package core

import (
	"testing"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowSmallSeriesUnchanged(t *testing.T) {
	w := NewWindower(contract.DefaultWindowPolicy())
	series := dailyBins(epoch, 1000, constant(70))

	got := w.Window(series, epoch.Add(500*schema.Day), schema.MonthSpan)
	assert.Len(t, got, 1000)
	assert.Same(t, &series[0], &got[0], "small series is returned as is")
}

func TestWindowEmpty(t *testing.T) {
	w := NewWindower(contract.DefaultWindowPolicy())
	assert.Empty(t, w.Window(nil, epoch, schema.WeekSpan))
}

// Ten years of daily bins, anchored at the last date.
func TestWindowDecadeAtLatest(t *testing.T) {
	w := NewWindower(contract.DefaultWindowPolicy())
	series := dailyBins(epoch, 3650, linear(80, -0.001))
	last := series[len(series)-1]

	for _, span := range schema.AllSpans {
		t.Run(string(span), func(t *testing.T) {
			got := w.Window(series, last.Timestamp, span)
			assert.LessOrEqual(t, len(got), 2000)
			assert.GreaterOrEqual(t, len(got), 500)
			assert.Equal(t, last, got[len(got)-1], "most recent point is included")
		})
	}
}

func TestWindowDensityAdaptiveCount(t *testing.T) {
	w := NewWindower(contract.DefaultWindowPolicy())
	daily := dailyBins(epoch, 3650, constant(70))
	anchor := epoch.Add(1800 * schema.Day)

	// 30 days x 4 = 120 points, clamped up to 500.
	assert.Len(t, w.Window(daily, anchor, schema.MonthSpan), 500)
	// 365 days x 4 = 1460 points.
	assert.Len(t, w.Window(daily, anchor, schema.YearSpan), 1460)

	// Hourly samples: 7 days x 4 = 672 points, 30 days x 4 = 2880 clamped to 2000.
	hourly := make([]schema.Bin, 5000)
	for i := range hourly {
		hourly[i] = schema.Bin{Timestamp: epoch.Add(time.Duration(i) * time.Hour), Value: 70}
	}
	mid := hourly[2500].Timestamp
	assert.Len(t, w.Window(hourly, mid, schema.WeekSpan), 672)
	assert.Len(t, w.Window(hourly, mid, schema.MonthSpan), 2000)
}

func TestWindowBoundForLargeSeries(t *testing.T) {
	w := NewWindower(contract.DefaultWindowPolicy())
	sizes := []int{1001, 1500, 3650, 8000}
	spacings := []time.Duration{time.Hour, 6 * time.Hour, schema.Day, 7 * schema.Day}

	for _, n := range sizes {
		for _, spacing := range spacings {
			series := make([]schema.Bin, n)
			for i := range series {
				series[i] = schema.Bin{Timestamp: epoch.Add(time.Duration(i) * spacing), Value: float64(i)}
			}
			anchors := []time.Time{
				epoch.Add(-schema.Day),
				series[n/3].Timestamp,
				series[n-1].Timestamp,
				series[n-1].Timestamp.Add(365 * schema.Day),
			}
			for _, anchor := range anchors {
				for _, span := range schema.AllSpans {
					got := w.Window(series, anchor, span)
					require.GreaterOrEqual(t, len(got), 500)
					require.LessOrEqual(t, len(got), 2000)
					for i := 1; i < len(got); i++ {
						require.True(t, got[i-1].Timestamp.Before(got[i].Timestamp))
					}
				}
			}
		}
	}
}

func TestWindowIdempotent(t *testing.T) {
	w := NewWindower(contract.DefaultWindowPolicy())
	series := dailyBins(epoch, 3650, linear(90, -0.005))

	for _, span := range schema.AllSpans {
		for _, idx := range []int{0, 10, 1200, 3000, 3649} {
			anchor := series[idx].Timestamp
			once := w.Window(series, anchor, span)
			twice := w.Window(once, anchor, span)
			assert.Equal(t, once, twice, "span %s index %d", span, idx)
		}
	}

	t.Run("anchor beyond the end", func(t *testing.T) {
		anchor := series[len(series)-1].Timestamp.Add(100 * schema.Day)
		once := w.Window(series, anchor, schema.YearSpan)
		assert.Equal(t, once, w.Window(once, anchor, schema.YearSpan))
	})
}

func TestWindowCenteredOnAnchor(t *testing.T) {
	w := NewWindower(contract.DefaultWindowPolicy())
	series := dailyBins(epoch, 3650, constant(70))
	anchor := series[2000].Timestamp

	got := w.Window(series, anchor, schema.MonthSpan)
	require.Len(t, got, 500)
	assert.Equal(t, series[1750], got[0])
	assert.Equal(t, series[2249], got[len(got)-1])

	t.Run("anchor between samples uses the next sample", func(t *testing.T) {
		got := w.Window(series, anchor.Add(-time.Hour), schema.MonthSpan)
		assert.Equal(t, series[1750], got[0])
	})

	t.Run("anchor before the start shifts the window inward", func(t *testing.T) {
		got := w.Window(series, epoch.Add(-30*schema.Day), schema.MonthSpan)
		require.Len(t, got, 500)
		assert.Equal(t, series[0], got[0])
	})

	t.Run("anchor past the end uses the midpoint", func(t *testing.T) {
		got := w.Window(series, series[3649].Timestamp.Add(schema.Day), schema.MonthSpan)
		require.Len(t, got, 500)
		assert.Equal(t, series[1825-250], got[0])
	})
}

func TestWindowDeterministic(t *testing.T) {
	w := NewWindower(contract.DefaultWindowPolicy())
	series := dailyBins(epoch, 2500, linear(70, 0.01))
	anchor := series[1234].Timestamp
	first := w.Window(series, anchor, schema.WeekSpan)
	for range 5 {
		assert.Equal(t, first, w.Window(series, anchor, schema.WeekSpan))
	}
}

func TestWindowCustomPolicy(t *testing.T) {
	w := NewWindower(contract.WindowPolicy{
		SmallSeriesThreshold: 10,
		BufferMultiplier:     1,
		MinPoints:            5,
		MaxPoints:            8,
		DensitySample:        2,
	})
	series := dailyBins(epoch, 40, constant(1))
	// 7 days x 1 = 7 points.
	assert.Len(t, w.Window(series, series[20].Timestamp, schema.WeekSpan), 7)
	// 30 days clamped to 8.
	assert.Len(t, w.Window(series, series[20].Timestamp, schema.MonthSpan), 8)
	assert.Equal(t, contract.WindowPolicy{SmallSeriesThreshold: 10, BufferMultiplier: 1, MinPoints: 5, MaxPoints: 8, DensitySample: 2}, w.Policy())
}

func TestEstimateDensity(t *testing.T) {
	assert.Equal(t, schema.Day, estimateDensity(nil, 0, 50))
	assert.Equal(t, schema.Day, estimateDensity(dailyBins(epoch, 1, constant(1)), 0, 50))

	// Sparse history followed by dense recent samples.
	var series []schema.Bin
	ts := epoch
	for range 200 {
		series = append(series, schema.Bin{Timestamp: ts})
		ts = ts.Add(7 * schema.Day)
	}
	for range 200 {
		series = append(series, schema.Bin{Timestamp: ts})
		ts = ts.Add(schema.Day)
	}
	assert.Equal(t, 7*schema.Day, estimateDensity(series, 100, 50))
	assert.Equal(t, schema.Day, estimateDensity(series, 300, 50))
	assert.Equal(t, schema.Day, estimateDensity(series, 399, 50), "fewer points near the edge")
}
