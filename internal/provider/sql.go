package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

// ErrNoSampleStore is returned when the SQL provider has no store to read.
var ErrNoSampleStore = errors.New("sample store is not configured")

// SQL reads raw samples from a SampleStore and aggregates them per span.
type SQL struct {
	store  contract.SampleStore
	height float64
}

var _ contract.Provider = &SQL{} // Compile-time check

// NewSQL creates a provider backed by the sample store.
func NewSQL(store contract.SampleStore, heightMeters float64) *SQL {
	return &SQL{store: store, height: heightMeters}
}

// Namespace identifies this provider's output for snapshot keys.
func (p *SQL) Namespace() string {
	return fmt.Sprintf("%s-h%.3f", schema.SQLProvider, p.height)
}

func (p *SQL) samples(ctx context.Context) ([]schema.Sample, error) {
	if p.store == nil {
		return nil, ErrNoSampleStore
	}
	samples, err := p.store.ListSamples(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	return samples, nil
}

// Bins returns weight bins in kilograms for the span.
func (p *SQL) Bins(ctx context.Context, span schema.Span) ([]schema.Bin, error) {
	samples, err := p.samples(ctx)
	if err != nil {
		return nil, err
	}
	return BinSamples(samples, span), nil
}

// BMIBins returns BMI bins for the span.
func (p *SQL) BMIBins(ctx context.Context, span schema.Span) ([]schema.Bin, error) {
	weights, err := p.Bins(ctx, span)
	if err != nil {
		return nil, err
	}
	return BMI(weights, p.height), nil
}
