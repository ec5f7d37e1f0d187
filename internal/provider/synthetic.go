package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

// Synthetic generation tuning.
const (
	gapChance      = 0.02 // chance per day that a gap starts
	minGapDays     = 2
	maxGapDays     = 21
	driftPerDay    = 0.25 // kilograms
	meanReversion  = 0.02
	minStartWeight = 68.0
	maxStartWeight = 96.0
)

var syntheticSources = []string{"scale", "manual", "import"}

// Synthetic is a deterministic sample generator. The same seed, years and
// end date always produce the same samples.
type Synthetic struct {
	seed   int64
	years  int
	height float64
	end    time.Time

	once    sync.Once
	samples []schema.Sample
}

var _ contract.Provider = &Synthetic{} // Compile-time check

// SyntheticOption configures a Synthetic provider.
type SyntheticOption func(*Synthetic)

// WithEnd sets the last generated day. It defaults to today in UTC.
func WithEnd(end time.Time) SyntheticOption {
	return func(s *Synthetic) { s.end = end }
}

// NewSynthetic creates a generator for the given seed, history length and height.
func NewSynthetic(seed int64, years int, heightMeters float64, opts ...SyntheticOption) *Synthetic {
	s := &Synthetic{
		seed:   seed,
		years:  years,
		height: heightMeters,
		end:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.end = binStart(s.end, schema.WeekSpan)
	return s
}

// Namespace identifies this generator's output for snapshot keys.
func (s *Synthetic) Namespace() string {
	return fmt.Sprintf("synthetic-%d-%d-%s-h%.3f", s.seed, s.years, s.end.Format(contract.DateFormat), s.height)
}

// Samples returns the generated raw samples in timestamp order.
func (s *Synthetic) Samples() []schema.Sample {
	s.once.Do(func() { s.samples = s.generate() })
	return s.samples
}

// generate walks day by day from years before end, drifting around a
// target weight and skipping random multi-day gaps.
func (s *Synthetic) generate() []schema.Sample {
	faker := gofakeit.New(s.seed)
	start := s.end.AddDate(-s.years, 0, 0)

	target := faker.Float64Range(minStartWeight, maxStartWeight)
	weight := target
	samples := make([]schema.Sample, 0, int(s.end.Sub(start)/schema.Day)+1)

	for day := start; !day.After(s.end); day = day.AddDate(0, 0, 1) {
		weight += faker.Float64Range(-driftPerDay, driftPerDay) + (target-weight)*meanReversion
		// The target itself wanders so that years show trends
		target += faker.Float64Range(-0.05, 0.05)

		if faker.Float64Range(0, 1) < gapChance {
			day = day.AddDate(0, 0, faker.Number(minGapDays, maxGapDays)-1)
			continue
		}
		minute := faker.Number(0, 120)
		samples = append(samples, schema.Sample{
			Timestamp: day.Add(6*time.Hour + time.Duration(minute)*time.Minute),
			Kilograms: weight,
			Source:    faker.RandomString(syntheticSources),
		})
	}
	return samples
}

// Bins returns weight bins in kilograms for the span.
func (s *Synthetic) Bins(ctx context.Context, span schema.Span) ([]schema.Bin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return BinSamples(s.Samples(), span), nil
}

// BMIBins returns BMI bins for the span.
func (s *Synthetic) BMIBins(ctx context.Context, span schema.Span) ([]schema.Bin, error) {
	weights, err := s.Bins(ctx, span)
	if err != nil {
		return nil, err
	}
	return BMI(weights, s.height), nil
}
