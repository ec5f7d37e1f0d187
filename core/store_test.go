package core

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// funcProvider adapts a function to contract.Provider.
type funcProvider struct {
	calls atomic.Int32
	fetch func(ctx context.Context, span schema.Span, metric schema.Metric) ([]schema.Bin, error)
}

func (p *funcProvider) Bins(ctx context.Context, span schema.Span) ([]schema.Bin, error) {
	p.calls.Add(1)
	return p.fetch(ctx, span, schema.WeightMetric)
}

func (p *funcProvider) BMIBins(ctx context.Context, span schema.Span) ([]schema.Bin, error) {
	p.calls.Add(1)
	return p.fetch(ctx, span, schema.BMIMetric)
}

func fixedProvider(value float64) *funcProvider {
	return &funcProvider{fetch: func(_ context.Context, _ schema.Span, metric schema.Metric) ([]schema.Bin, error) {
		if metric == schema.BMIMetric {
			return dailyBins(epoch, 30, constant(value/3)), nil
		}
		return dailyBins(epoch, 30, constant(value)), nil
	}}
}

// memoryCache is an in-memory contract.CacheStore.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	version   int
	timestamp int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]memoryEntry)}
}

func (m *memoryCache) Get(key string) ([]byte, int, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, 0, 0, contract.ErrNotFound
	}
	return e.value, e.version, e.timestamp, nil
}

func (m *memoryCache) Set(key string, value []byte, version int, timestamp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, version: version, timestamp: timestamp}
	return nil
}

func (m *memoryCache) GetStatus() (schema.CacheStatus, error) {
	return schema.CacheStatus{Backend: "memory", Connected: true, TotalEntries: len(m.entries)}, nil
}

func (m *memoryCache) Close() error { return nil }

func TestStoreEmptyBeforeRefresh(t *testing.T) {
	s := NewStore(fixedProvider(70), time.Minute)
	for _, span := range schema.AllSpans {
		for _, metric := range schema.AllMetrics {
			assert.True(t, s.SeriesFor(span, metric).Empty())
		}
	}
	assert.Zero(t, s.DataVersion())
	assert.True(t, s.LastRefresh().IsZero())
}

func TestStoreRefreshPublishesAllSeries(t *testing.T) {
	p := fixedProvider(72)
	s := NewStore(p, time.Minute)

	require.NoError(t, s.Refresh(context.Background(), false))
	assert.Equal(t, int32(6), p.calls.Load())
	assert.Equal(t, uint64(1), s.DataVersion())

	for _, span := range schema.AllSpans {
		weight := s.SeriesFor(span, schema.WeightMetric)
		assert.Len(t, weight.Bins, 30)
		assert.Equal(t, 72.0, weight.Bins[0].Value)
		assert.Equal(t, span, weight.Span)
		assert.Equal(t, 24.0, s.SeriesFor(span, schema.BMIMetric).Bins[0].Value)
	}

	summaries := s.Summaries()
	require.Len(t, summaries, 6)
	assert.Equal(t, 30, summaries[0].Count)
	assert.Equal(t, epoch, summaries[0].First)
}

func TestStoreRefreshSanitizesInput(t *testing.T) {
	p := &funcProvider{fetch: func(context.Context, schema.Span, schema.Metric) ([]schema.Bin, error) {
		return []schema.Bin{
			{Timestamp: epoch.Add(schema.Day), Value: 71},
			{Timestamp: epoch, Value: math.NaN()},
			{Timestamp: epoch, Value: 70},
			{Timestamp: epoch.Add(schema.Day), Value: 72},
		}, nil
	}}
	s := NewStore(p, time.Minute)
	require.NoError(t, s.Refresh(context.Background(), true))

	assert.Equal(t, []schema.Bin{
		{Timestamp: epoch, Value: 70},
		{Timestamp: epoch.Add(schema.Day), Value: 72},
	}, s.SeriesFor(schema.WeekSpan, schema.WeightMetric).Bins)
}

func TestStoreExpiryPolicy(t *testing.T) {
	now := epoch
	p := fixedProvider(70)
	s := NewStore(p, 300*time.Second, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, s.Refresh(ctx, false))
	assert.Equal(t, int32(6), p.calls.Load())

	now = now.Add(299 * time.Second)
	require.NoError(t, s.Refresh(ctx, false))
	assert.Equal(t, int32(6), p.calls.Load(), "fresh data skips the fetch")
	assert.Equal(t, uint64(1), s.DataVersion())

	require.NoError(t, s.Refresh(ctx, true))
	assert.Equal(t, int32(12), p.calls.Load(), "force always fetches")
	assert.Equal(t, uint64(2), s.DataVersion())

	now = now.Add(300 * time.Second)
	require.NoError(t, s.Refresh(ctx, false))
	assert.Equal(t, int32(18), p.calls.Load(), "expired data is fetched again")
}

func TestStoreExpiryIgnoredForEmptyData(t *testing.T) {
	p := &funcProvider{fetch: func(context.Context, schema.Span, schema.Metric) ([]schema.Bin, error) {
		return nil, nil
	}}
	s := NewStore(p, time.Hour)
	require.NoError(t, s.Refresh(context.Background(), false))
	require.NoError(t, s.Refresh(context.Background(), false))
	assert.Equal(t, int32(12), p.calls.Load())
	assert.Equal(t, uint64(2), s.DataVersion())
	assert.True(t, s.SeriesFor(schema.MonthSpan, schema.WeightMetric).Empty())
}

func TestStoreFailedRefreshKeepsPreviousData(t *testing.T) {
	var fail atomic.Bool
	p := &funcProvider{fetch: func(_ context.Context, span schema.Span, metric schema.Metric) ([]schema.Bin, error) {
		if fail.Load() && span == schema.YearSpan && metric == schema.BMIMetric {
			return nil, errors.New("health store unavailable")
		}
		value := 70.0
		if fail.Load() {
			value = 99
		}
		return dailyBins(epoch, 10, constant(value)), nil
	}}
	s := NewStore(p, time.Minute)
	require.NoError(t, s.Refresh(context.Background(), true))

	fail.Store(true)
	err := s.Refresh(context.Background(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch year/bmi")

	assert.Equal(t, uint64(1), s.DataVersion(), "failed refresh does not bump the version")
	for _, span := range schema.AllSpans {
		assert.Equal(t, 70.0, s.SeriesFor(span, schema.WeightMetric).Bins[0].Value, "no partial publish")
	}
}

// A slow first refresh that completes after a newer one must not be applied.
func TestStoreSupersededRefreshDiscarded(t *testing.T) {
	release := make(chan struct{})
	var round atomic.Int32

	firstStarted := make(chan struct{}, 6)
	p := &funcProvider{}
	p.fetch = func(_ context.Context, _ schema.Span, _ schema.Metric) ([]schema.Bin, error) {
		if round.Load() == 1 {
			firstStarted <- struct{}{}
			<-release // ignores cancellation on purpose
			return dailyBins(epoch, 5, constant(1)), nil
		}
		return dailyBins(epoch, 5, constant(2)), nil
	}

	s := NewStore(p, time.Minute)
	round.Store(1)
	firstDone := make(chan error, 1)
	go func() { firstDone <- s.Refresh(context.Background(), true) }()
	for range 6 {
		<-firstStarted
	}

	round.Store(2)
	require.NoError(t, s.Refresh(context.Background(), true))
	assert.Equal(t, 2.0, s.SeriesFor(schema.WeekSpan, schema.WeightMetric).Bins[0].Value)

	close(release)
	require.NoError(t, <-firstDone, "superseded refresh is not an error")

	assert.Equal(t, 2.0, s.SeriesFor(schema.WeekSpan, schema.WeightMetric).Bins[0].Value)
	assert.Equal(t, uint64(1), s.DataVersion(), "only the latest generation publishes")
}

func TestStoreNewRefreshCancelsPrevious(t *testing.T) {
	var round atomic.Int32
	cancelled := make(chan struct{}, 6)
	started := make(chan struct{}, 6)

	p := &funcProvider{}
	p.fetch = func(ctx context.Context, _ schema.Span, _ schema.Metric) ([]schema.Bin, error) {
		if round.Load() == 1 {
			started <- struct{}{}
			<-ctx.Done()
			cancelled <- struct{}{}
			return nil, ctx.Err()
		}
		return dailyBins(epoch, 3, constant(70)), nil
	}

	s := NewStore(p, time.Minute)
	round.Store(1)
	firstDone := make(chan error, 1)
	go func() { firstDone <- s.Refresh(context.Background(), true) }()
	<-started

	round.Store(2)
	require.NoError(t, s.Refresh(context.Background(), true))
	<-cancelled
	assert.NoError(t, <-firstDone)
	assert.Equal(t, uint64(1), s.DataVersion())
}

func TestStoreCloseCancelsInFlight(t *testing.T) {
	started := make(chan struct{}, 6)
	p := &funcProvider{fetch: func(ctx context.Context, _ schema.Span, _ schema.Metric) ([]schema.Bin, error) {
		started <- struct{}{}
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	s := NewStore(p, time.Minute)
	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background(), true) }()
	<-started

	s.Close()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.DataVersion())
}

func TestStoreSnapshotRoundTrip(t *testing.T) {
	cache := newMemoryCache()
	s := NewStore(fixedProvider(80), time.Minute, WithSnapshots(cache, "synthetic"))
	require.NoError(t, s.Refresh(context.Background(), true))
	assert.Len(t, cache.entries, 6)

	restored := NewStore(fixedProvider(0), time.Minute, WithSnapshots(cache, "synthetic"))
	require.NoError(t, restored.Restore())
	assert.Equal(t, uint64(1), restored.DataVersion())
	assert.Equal(t, 80.0, restored.SeriesFor(schema.YearSpan, schema.WeightMetric).Bins[0].Value)
	assert.True(t, restored.LastRefresh().IsZero(), "a restored snapshot is never fresh")

	other := NewStore(fixedProvider(0), time.Minute, WithSnapshots(cache, "sql"))
	assert.ErrorIs(t, other.Restore(), ErrEmptySnapshot, "namespaces do not mix")
}

func TestStoreRestoredSnapshotStillRefreshes(t *testing.T) {
	cache := newMemoryCache()
	require.NoError(t, NewStore(fixedProvider(80), time.Minute, WithSnapshots(cache, "ns")).Refresh(context.Background(), false))

	p := fixedProvider(60)
	s := NewStore(p, time.Minute, WithSnapshots(cache, "ns"))
	require.NoError(t, s.Restore())
	assert.Equal(t, 80.0, s.SeriesFor(schema.MonthSpan, schema.WeightMetric).Bins[0].Value)

	require.NoError(t, s.Refresh(context.Background(), false))
	assert.Equal(t, int32(6), p.calls.Load(), "restored data does not skip the fetch")
	assert.Equal(t, 60.0, s.SeriesFor(schema.MonthSpan, schema.WeightMetric).Bins[0].Value)
	assert.Equal(t, 20.0, s.SeriesFor(schema.MonthSpan, schema.BMIMetric).Bins[0].Value)
	assert.Equal(t, uint64(2), s.DataVersion())
}

func TestStoreRestoreReadError(t *testing.T) {
	cs := &contract.MockCacheStore{}
	cs.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("connection refused"))

	s := NewStore(fixedProvider(0), time.Minute, WithSnapshots(cs, "ns"))
	err := s.Restore()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptySnapshot)
	assert.ErrorContains(t, err, "connection refused")
	assert.Zero(t, s.DataVersion())
}

func TestStoreRestoreVersionMismatch(t *testing.T) {
	cs := &contract.MockCacheStore{}
	cs.On("Get", mock.Anything).Return([]byte(`{"data_version":1,"bins":[]}`), snapshotVersion+1, int64(100), nil)

	s := NewStore(fixedProvider(0), time.Minute, WithSnapshots(cs, "ns"))
	assert.ErrorIs(t, s.Restore(), ErrEmptySnapshot)
}

func TestStoreSpanData(t *testing.T) {
	s := NewStore(fixedProvider(75), time.Minute)
	assert.Zero(t, s.SpanData(schema.WeekSpan).DataVersion)

	require.NoError(t, s.Refresh(context.Background(), false))
	data := s.SpanData(schema.WeekSpan)
	assert.Equal(t, uint64(1), data.DataVersion)
	assert.Equal(t, s.SeriesFor(schema.WeekSpan, schema.WeightMetric), data.Weight)
	assert.Equal(t, s.SeriesFor(schema.WeekSpan, schema.BMIMetric), data.BMI)
}

func TestStoreRestoreDoesNotOverridePublishedData(t *testing.T) {
	cache := newMemoryCache()
	require.NoError(t, NewStore(fixedProvider(80), time.Minute, WithSnapshots(cache, "ns")).Refresh(context.Background(), true))

	s := NewStore(fixedProvider(90), time.Minute, WithSnapshots(cache, "ns"))
	require.NoError(t, s.Refresh(context.Background(), true))
	require.NoError(t, s.Restore())
	assert.Equal(t, 90.0, s.SeriesFor(schema.MonthSpan, schema.WeightMetric).Bins[0].Value)
}

func TestStoreRestorePartialSnapshot(t *testing.T) {
	cs := &contract.MockCacheStore{}
	cs.On("Get", contract.SnapshotKey("ns", schema.WeekSpan, schema.WeightMetric)).
		Return([]byte(`{"data_version":3,"bins":[]}`), snapshotVersion, int64(100), nil)
	cs.On("Get", mock.Anything).Return(nil, 0, int64(0), contract.ErrNotFound)

	s := NewStore(fixedProvider(0), time.Minute, WithSnapshots(cs, "ns"))
	assert.ErrorIs(t, s.Restore(), ErrEmptySnapshot)
	assert.Zero(t, s.DataVersion())

	assert.ErrorIs(t, NewStore(fixedProvider(0), time.Minute).Restore(), ErrEmptySnapshot)
}

func TestStoreRestoreCorruptSnapshot(t *testing.T) {
	cs := &contract.MockCacheStore{}
	cs.On("Get", mock.Anything).Return([]byte(`not json`), snapshotVersion, int64(100), nil)

	s := NewStore(fixedProvider(0), time.Minute, WithSnapshots(cs, "ns"))
	assert.Error(t, s.Restore())
	assert.Zero(t, s.DataVersion())
}

func TestStoreSnapshotWriteFailureIsNotFatal(t *testing.T) {
	cs := &contract.MockCacheStore{}
	cs.On("Set", mock.Anything, mock.Anything, snapshotVersion, mock.Anything).Return(errors.New("disk full"))

	s := NewStore(fixedProvider(70), time.Minute, WithSnapshots(cs, "ns"))
	require.NoError(t, s.Refresh(context.Background(), true))
	assert.Equal(t, uint64(1), s.DataVersion())
	cs.AssertNumberOfCalls(t, "Set", 1)
}
