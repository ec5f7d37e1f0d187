package core

import (
	"sync"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
	"github.com/sirupsen/logrus"
)

// Chart ties the pipeline together: it windows, segments and normalizes
// the active series and memoizes the result per view key.
type Chart struct {
	mu         sync.Mutex
	model      *WindowModel
	windower   *Windower
	segmenter  *Segmenter
	cache      *ViewCache
	debouncer  *Debouncer
	bucketSize time.Duration
	snap       bool
	scope      *schema.ViewKey // span, unit and data version the cache holds
	log        *logrus.Entry
}

// NewChart creates a Chart over source using the pipeline settings of cfg.
// A zero anchor in state starts the chart at the latest data point.
func NewChart(source SeriesSource, cfg *contract.Config, state schema.WindowState) *Chart {
	c := &Chart{
		model:      NewWindowModel(source, state),
		windower:   NewWindower(cfg.Window),
		segmenter:  NewSegmenter(cfg.Gaps),
		cache:      NewViewCache(cfg.ViewCacheEntries),
		debouncer:  NewDebouncer(cfg.Debounce),
		bucketSize: cfg.ScrollBucket,
		snap:       cfg.Snap,
		log:        contract.Logger("chart"),
	}
	if state.Anchor.IsZero() {
		c.ResetAnchor()
	} else {
		c.SetAnchor(state.Anchor)
	}
	return c
}

// State returns the current chart state.
func (c *Chart) State() schema.WindowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model.State()
}

// SetSpan switches the span. The view cache is cleared on the next frame.
func (c *Chart) SetSpan(span schema.Span) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model.SetSpan(span)
}

// SetUnit switches the display unit without refetching data.
func (c *Chart) SetUnit(unit schema.Unit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model.SetUnit(unit)
}

// SetAnchor moves the scroll anchor, snapping it to the span's calendar
// boundary when snapping is enabled.
func (c *Chart) SetAnchor(anchor time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap {
		anchor = c.model.State().Span.Align(anchor)
	}
	c.model.SetAnchor(anchor)
}

// Scroll moves the anchor by d and clamps it into the data.
func (c *Chart) Scroll(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	anchor := c.model.State().Anchor.Add(d)
	if c.snap {
		anchor = c.model.State().Span.Align(anchor)
	}
	c.model.SetAnchor(anchor)
	c.model.ClampAnchor()
}

// ResetAnchor moves the anchor to the latest data point of the active span.
func (c *Chart) ResetAnchor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, last, ok := c.model.Bounds(); ok {
		c.model.SetAnchor(last)
	}
}

// Schedule recomputes the frame after the debounce interval and passes it
// to onFrame. Calls arriving within the interval replace each other.
func (c *Chart) Schedule(onFrame func(schema.Frame)) {
	c.debouncer.Trigger(func() {
		onFrame(c.Frame())
	})
}

// Close drops any scheduled recompute.
func (c *Chart) Close() {
	c.debouncer.Stop()
}

// CachedViews returns the number of views held in the cache.
func (c *Chart) CachedViews() int {
	return c.cache.Len()
}

// Frame returns the frame for the current state, computing the view when
// the cache has no entry for it.
func (c *Chart) Frame() schema.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.model.State()
	data := c.model.Data()
	key := schema.ViewKey{
		Span:        state.Span,
		Unit:        state.Unit,
		DataVersion: data.DataVersion,
		Bucket:      Bucket(state.Anchor, c.bucketSize),
	}
	if c.scope == nil || c.scope.Span != key.Span || c.scope.Unit != key.Unit || c.scope.DataVersion != key.DataVersion {
		if c.cache.Len() > 0 {
			c.log.WithFields(logrus.Fields{"span": key.Span, "unit": key.Unit, "data_version": key.DataVersion}).Debug("view cache invalidated")
		}
		c.cache.Reset()
		scope := key
		c.scope = &scope
	}

	view, ok := c.cache.Get(key)
	if !ok {
		view = c.computeView(key, data)
		c.cache.Put(key, view)
	}

	return schema.Frame{
		Span:             state.Span,
		Unit:             state.Unit,
		Anchor:           state.Anchor,
		BucketAnchor:     BucketTime(key.Bucket),
		DataVersion:      key.DataVersion,
		WeightSegments:   view.WeightSegments,
		BMISegments:      view.BMISegments,
		YDomain:          view.YDomain,
		XVisibleDuration: state.Span.VisibleDuration(),
		WindowedPoints:   len(view.WindowedWeight),
	}
}

// computeView runs the pipeline for key over data. The bucket anchor is
// clamped into the data, since rounding may push it past either end.
// Ranges for the overlay are taken over the windowed views so they match
// what is visible.
func (c *Chart) computeView(key schema.ViewKey, data SpanData) *schema.View {
	anchor := BucketTime(key.Bucket)
	if first, last, ok := data.Bounds(); ok {
		switch {
		case anchor.Before(first):
			anchor = first
		case anchor.After(last):
			anchor = last
		}
	}
	weight := c.windower.Window(c.model.visible(data, schema.WeightMetric), anchor, key.Span)
	bmi := c.windower.Window(c.model.visible(data, schema.BMIMetric), anchor, key.Span)

	weightRange := RangeOf(weight)
	bmiRange := RangeOf(bmi)
	normalized := Normalize(bmi, weightRange, bmiRange)

	domain := weightRange
	if len(weight) == 0 {
		domain = bmiRange
	}

	return &schema.View{
		WindowedWeight: weight,
		WindowedBMI:    bmi,
		WeightSegments: c.segmenter.Segments(weight, key.Span),
		NormalizedBMI:  normalized,
		BMISegments:    c.segmenter.Segments(normalized, key.Span),
		YDomain:        domain,
	}
}
