package core

import (
	"time"

	"github.com/huangsam/weighttrend/schema"
)

// SpanData holds the weight and BMI series of one span together with the
// data version they were published under.
type SpanData struct {
	DataVersion uint64
	Weight      schema.Series
	BMI         schema.Series
}

// Series returns the series of metric.
func (d SpanData) Series(metric schema.Metric) schema.Series {
	if metric == schema.BMIMetric {
		return d.BMI
	}
	return d.Weight
}

// Bounds returns the earliest and latest timestamps across both series.
func (d SpanData) Bounds() (first, last time.Time, ok bool) {
	for _, metric := range schema.AllMetrics {
		f, l, has := d.Series(metric).Bounds()
		if !has {
			continue
		}
		if !ok || f.Before(first) {
			first = f
		}
		if !ok || l.After(last) {
			last = l
		}
		ok = true
	}
	return first, last, ok
}

// SeriesSource exposes published series. Store implements it.
type SeriesSource interface {
	// SpanData returns both series of span and their data version as one
	// consistent read.
	SpanData(span schema.Span) SpanData
}

// WindowModel exposes the full series of the active span to the windowing
// stage, converted to the active unit, and tracks the chart state.
// It is not safe for concurrent use; Chart serializes access.
type WindowModel struct {
	source SeriesSource
	state  schema.WindowState
}

// NewWindowModel creates a WindowModel over source with the given state.
func NewWindowModel(source SeriesSource, state schema.WindowState) *WindowModel {
	if state.Span == "" {
		state.Span = schema.MonthSpan
	}
	if state.Unit == "" {
		state.Unit = schema.Kilogram
	}
	return &WindowModel{source: source, state: state}
}

// State returns the current chart state.
func (m *WindowModel) State() schema.WindowState {
	return m.state
}

// VisiblePoints returns the full series of metric for the active span.
// Weight values are multiplied by the unit factor; BMI is unitless and
// returned as published.
func (m *WindowModel) VisiblePoints(metric schema.Metric) []schema.Bin {
	return m.visible(m.Data(), metric)
}

// Data returns the published data of the active span.
func (m *WindowModel) Data() SpanData {
	return m.source.SpanData(m.state.Span)
}

// visible converts one series of data to the active unit.
func (m *WindowModel) visible(data SpanData, metric schema.Metric) []schema.Bin {
	bins := data.Series(metric).Bins
	factor := m.state.Unit.Factor()
	if metric != schema.WeightMetric || factor == 1 || len(bins) == 0 {
		return bins
	}
	converted := make([]schema.Bin, len(bins))
	for i, b := range bins {
		converted[i] = schema.Bin{Timestamp: b.Timestamp, Value: b.Value * factor}
	}
	return converted
}

// SetSpan switches the active span and clamps the anchor into the data of
// the new span.
func (m *WindowModel) SetSpan(span schema.Span) {
	m.state.Span = span
	m.ClampAnchor()
}

// SetUnit switches the display unit.
func (m *WindowModel) SetUnit(unit schema.Unit) {
	m.state.Unit = unit
}

// SetAnchor moves the scroll anchor.
func (m *WindowModel) SetAnchor(anchor time.Time) {
	m.state.Anchor = anchor
}

// ClampAnchor moves the anchor into [first, last] of the active span's
// weight and BMI data. It leaves the anchor alone when both are empty.
func (m *WindowModel) ClampAnchor() {
	first, last, ok := m.Bounds()
	if !ok {
		return
	}
	switch {
	case m.state.Anchor.Before(first):
		m.state.Anchor = first
	case m.state.Anchor.After(last):
		m.state.Anchor = last
	}
}

// Bounds returns the earliest and latest timestamps across the weight and
// BMI series of the active span.
func (m *WindowModel) Bounds() (first, last time.Time, ok bool) {
	return m.Data().Bounds()
}
