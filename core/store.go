package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// snapshotVersion defines the version of the snapshot payload.
const snapshotVersion = 1

// ErrEmptySnapshot is returned by Restore when no complete snapshot exists.
var ErrEmptySnapshot = errors.New("no complete snapshot")

type seriesKey struct {
	span   schema.Span
	metric schema.Metric
}

// allSeriesKeys lists every (span, metric) pair fetched by a refresh.
var allSeriesKeys = func() []seriesKey {
	keys := make([]seriesKey, 0, len(schema.AllSpans)*len(schema.AllMetrics))
	for _, span := range schema.AllSpans {
		for _, metric := range schema.AllMetrics {
			keys = append(keys, seriesKey{span: span, metric: metric})
		}
	}
	return keys
}()

// snapshotPayload is the persisted form of one published series.
type snapshotPayload struct {
	DataVersion uint64       `json:"data_version"`
	Bins        []schema.Bin `json:"bins"`
}

// Store holds the raw series for every span and metric, refreshed from a
// provider. Published series are never mutated, so callers may read the
// returned slices freely.
type Store struct {
	provider contract.Provider
	expiry   time.Duration
	log      *logrus.Entry
	now      func() time.Time

	snapshots contract.CacheStore
	namespace string
	persistMu sync.Mutex
	persisted uint64

	mu          sync.Mutex
	series      map[seriesKey][]schema.Bin
	dataVersion uint64
	lastRefresh time.Time
	generation  uint64
	cancel      context.CancelFunc
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSnapshots persists every published refresh into cs under namespace.
func WithSnapshots(cs contract.CacheStore, namespace string) StoreOption {
	return func(s *Store) {
		s.snapshots = cs
		s.namespace = namespace
	}
}

// WithClock overrides the clock used for the expiry policy.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithLogger overrides the store logger.
func WithLogger(log *logrus.Entry) StoreOption {
	return func(s *Store) { s.log = log }
}

// NewStore creates a Store that refreshes from provider and considers
// data fresh for expiry after a successful refresh.
func NewStore(provider contract.Provider, expiry time.Duration, opts ...StoreOption) *Store {
	s := &Store{
		provider: provider,
		expiry:   expiry,
		log:      contract.Logger("store"),
		now:      time.Now,
		series:   make(map[seriesKey][]schema.Bin),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh fetches every span and metric concurrently and publishes them
// together once all fetches succeed. Unless force is set, it does nothing
// while published data is younger than the expiry interval.
//
// A refresh supersedes any refresh still in flight. Results of a
// superseded refresh are discarded and it returns nil. On failure the
// previously published data stays in place and the error is returned.
func (s *Store) Refresh(ctx context.Context, force bool) error {
	s.mu.Lock()
	if !force && s.freshLocked() {
		s.mu.Unlock()
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	log := s.log.WithField("generation", gen)
	log.Debug("refresh started")
	fetched, err := s.fetchAll(ctx)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		log.WithField("latest", s.latestGeneration()).Debug("discarding superseded refresh")
		return nil
	}
	s.cancel = nil
	if err != nil {
		s.mu.Unlock()
		log.WithError(err).Error("refresh failed, keeping previous data")
		return err
	}
	s.series = fetched
	s.dataVersion++
	s.lastRefresh = s.now()
	version, published := s.dataVersion, s.lastRefresh
	s.mu.Unlock()

	log.WithField("data_version", version).Info("refresh published")
	s.persist(fetched, version, published)
	return nil
}

// fetchAll runs the provider calls for every series key concurrently.
func (s *Store) fetchAll(ctx context.Context) (map[seriesKey][]schema.Bin, error) {
	results := make([][]schema.Bin, len(allSeriesKeys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range allSeriesKeys {
		g.Go(func() error {
			var bins []schema.Bin
			var err error
			switch key.metric {
			case schema.BMIMetric:
				bins, err = s.provider.BMIBins(gctx, key.span)
			default:
				bins, err = s.provider.Bins(gctx, key.span)
			}
			if err != nil {
				return fmt.Errorf("fetch %s/%s: %w", key.span, key.metric, err)
			}
			results[i] = Sanitize(bins)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fetched := make(map[seriesKey][]schema.Bin, len(allSeriesKeys))
	for i, key := range allSeriesKeys {
		fetched[key] = results[i]
	}
	return fetched, nil
}

// freshLocked reports whether a refresh can be skipped. Caller holds mu.
func (s *Store) freshLocked() bool {
	if s.lastRefresh.IsZero() || s.now().Sub(s.lastRefresh) >= s.expiry {
		return false
	}
	for _, bins := range s.series {
		if len(bins) > 0 {
			return true
		}
	}
	return false
}

func (s *Store) latestGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// SeriesFor returns the last published series for span and metric, or an
// empty series if nothing was published yet.
func (s *Store) SeriesFor(span schema.Span, metric schema.Metric) schema.Series {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schema.Series{Span: span, Metric: metric, Bins: s.series[seriesKey{span: span, metric: metric}]}
}

// SpanData returns both series of span with their data version, read
// under one lock so they always belong to the same publish.
func (s *Store) SpanData(span schema.Span) SpanData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SpanData{
		DataVersion: s.dataVersion,
		Weight:      schema.Series{Span: span, Metric: schema.WeightMetric, Bins: s.series[seriesKey{span: span, metric: schema.WeightMetric}]},
		BMI:         schema.Series{Span: span, Metric: schema.BMIMetric, Bins: s.series[seriesKey{span: span, metric: schema.BMIMetric}]},
	}
}

// DataVersion returns a counter bumped on every successful publish.
func (s *Store) DataVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataVersion
}

// LastRefresh returns the time of the last successful publish.
func (s *Store) LastRefresh() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefresh
}

// Summaries describes every published series.
func (s *Store) Summaries() []schema.SeriesSummary {
	summaries := make([]schema.SeriesSummary, 0, len(allSeriesKeys))
	for _, key := range allSeriesKeys {
		series := s.SeriesFor(key.span, key.metric)
		summary := schema.SeriesSummary{Span: key.span, Metric: key.metric, Count: len(series.Bins)}
		if first, last, ok := series.Bounds(); ok {
			summary.First, summary.Last = first, last
			summary.Range = RangeOf(series.Bins)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// persist writes a published refresh to the snapshot store. Failures are
// logged and otherwise ignored.
func (s *Store) persist(fetched map[seriesKey][]schema.Bin, version uint64, published time.Time) {
	if s.snapshots == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if version <= s.persisted {
		return
	}
	s.persisted = version
	for _, key := range allSeriesKeys {
		data, err := json.Marshal(snapshotPayload{DataVersion: version, Bins: fetched[key]})
		if err != nil {
			contract.LogWarn("Error encoding snapshot", err)
			return
		}
		cacheKey := contract.SnapshotKey(s.namespace, key.span, key.metric)
		if err := s.snapshots.Set(cacheKey, data, snapshotVersion, published.Unix()); err != nil {
			contract.LogWarn("Error writing snapshot "+cacheKey, err)
			return
		}
	}
}

// Restore loads the last persisted snapshot so previously published data
// is visible before the first refresh completes. It only applies while
// nothing has been published, and only when every series is present in
// the same data version. A restored snapshot never counts as fresh: the
// next Refresh always fetches, and the snapshot stays only if it fails.
func (s *Store) Restore() error {
	if s.snapshots == nil {
		return ErrEmptySnapshot
	}

	restored := make(map[seriesKey][]schema.Bin, len(allSeriesKeys))
	var version uint64
	var published int64
	for i, key := range allSeriesKeys {
		data, v, ts, err := s.snapshots.Get(contract.SnapshotKey(s.namespace, key.span, key.metric))
		if errors.Is(err, contract.ErrNotFound) {
			return ErrEmptySnapshot
		}
		if err != nil {
			return fmt.Errorf("read snapshot %s/%s: %w", key.span, key.metric, err)
		}
		if v != snapshotVersion {
			return ErrEmptySnapshot
		}
		var payload snapshotPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode snapshot %s/%s: %w", key.span, key.metric, err)
		}
		if i > 0 && (payload.DataVersion != version || ts != published) {
			return ErrEmptySnapshot
		}
		version, published = payload.DataVersion, ts
		restored[key] = Sanitize(payload.Bins)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataVersion != 0 {
		return nil
	}
	s.series = restored
	s.dataVersion = max(version, 1)
	s.log.WithFields(logrus.Fields{
		"data_version": s.dataVersion,
		"published":    time.Unix(published, 0).UTC(),
	}).Debug("restored snapshot")
	return nil
}

// Close cancels any refresh in flight.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
