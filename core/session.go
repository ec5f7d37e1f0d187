package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/internal/provider"
	"github.com/huangsam/weighttrend/schema"
	"github.com/sirupsen/logrus"
)

func sampleStore(mgr contract.CacheManager) contract.SampleStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetSampleStore()
}

func preferenceStore(mgr contract.CacheManager) contract.PreferenceStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetPreferenceStore()
}

func snapshotStore(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetSnapshotStore()
}

// openStore builds the series store for the configured provider. The last
// snapshot is restored first, so a failed refresh still leaves data to show.
// cfg.Refresh forces a fetch even while published data is fresh.
func openStore(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*Store, error) {
	src, err := provider.New(cfg, sampleStore(mgr))
	if err != nil {
		return nil, err
	}

	var opts []StoreOption
	if snapshots := snapshotStore(mgr); snapshots != nil {
		opts = append(opts, WithSnapshots(snapshots, src.Namespace()))
	}
	store := NewStore(src, cfg.CacheExpiry, opts...)

	if err := store.Restore(); err != nil && !errors.Is(err, ErrEmptySnapshot) {
		contract.LogWarn("Error restoring snapshot", err)
	}
	if err := store.Refresh(ctx, cfg.Refresh); err != nil {
		if store.DataVersion() == 0 {
			store.Close()
			return nil, err
		}
		contract.LogWarn("Refresh failed, using last snapshot", err)
	}
	return store, nil
}

// resolveUnit prefers the configured unit and falls back to the stored preference.
func resolveUnit(cfg *contract.Config, mgr contract.CacheManager) schema.Unit {
	if cfg.Unit != "" {
		return cfg.Unit
	}
	unit, err := LoadUnit(preferenceStore(mgr))
	if err != nil {
		contract.LogWarn("Error reading unit preference", err)
	}
	return unit
}

type chartKey struct {
	span schema.Span
	unit schema.Unit
}

// Session keeps one store and one chart per span and unit for as long as
// it is open. Requests are served one at a time.
type Session struct {
	mu     sync.Mutex
	cfg    *contract.Config
	mgr    contract.CacheManager
	store  *Store
	charts map[chartKey]*Chart
	log    *logrus.Entry
}

// NewSession creates a session for cfg. The store is opened on first use.
func NewSession(cfg *contract.Config, mgr contract.CacheManager) *Session {
	return &Session{
		cfg:    cfg,
		mgr:    mgr,
		charts: make(map[chartKey]*Chart),
		log:    contract.Logger("session"),
	}
}

// ensureStore opens the store on first use and refreshes it on later
// calls. A failed later refresh keeps the published data.
func (s *Session) ensureStore(ctx context.Context) (*Store, error) {
	if s.store == nil {
		store, err := openStore(ctx, s.cfg, s.mgr)
		if err != nil {
			return nil, err
		}
		s.store = store
		return store, nil
	}
	if err := s.store.Refresh(ctx, s.cfg.Refresh); err != nil {
		contract.LogWarn("Refresh failed, keeping published data", err)
	}
	return s.store, nil
}

// Frame returns the frame for the chart state in cfg after scrolling by
// each step in turn. Only span, unit and anchor are read from cfg.
func (s *Session) Frame(ctx context.Context, cfg *contract.Config, steps []time.Duration) (schema.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.ensureStore(ctx)
	if err != nil {
		return schema.Frame{}, err
	}

	state := schema.WindowState{Span: cfg.Span, Anchor: cfg.Anchor, Unit: resolveUnit(cfg, s.mgr)}
	if state.Span == "" {
		state.Span = schema.MonthSpan
	}
	key := chartKey{span: state.Span, unit: state.Unit}
	chart, ok := s.charts[key]
	switch {
	case !ok:
		chart = NewChart(store, s.cfg, state)
		s.charts[key] = chart
	case state.Anchor.IsZero():
		chart.ResetAnchor()
	default:
		chart.SetAnchor(state.Anchor)
	}

	frame, err := scrollAndSettle(ctx, chart, steps)
	if err != nil {
		return schema.Frame{}, err
	}
	s.log.WithFields(logrus.Fields{
		"span":         key.span,
		"unit":         key.unit,
		"data_version": frame.DataVersion,
		"cached_views": chart.CachedViews(),
	}).Debug("frame served")
	return frame, nil
}

// Summaries refreshes the store when due and describes every series.
func (s *Session) Summaries(ctx context.Context) ([]schema.SeriesSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	store, err := s.ensureStore(ctx)
	if err != nil {
		return nil, err
	}
	return store.Summaries(), nil
}

// CachedViews returns the number of views cached across all charts.
func (s *Session) CachedViews() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, chart := range s.charts {
		total += chart.CachedViews()
	}
	return total
}

// DataVersion returns the data version of the store, or zero before first use.
func (s *Session) DataVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return 0
	}
	return s.store.DataVersion()
}

// Close stops pending recomputes and any refresh in flight.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chart := range s.charts {
		chart.Close()
	}
	if s.store != nil {
		s.store.Close()
	}
}
