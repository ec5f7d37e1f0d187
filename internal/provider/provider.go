package provider

import (
	"fmt"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

// Source is a provider that also names the namespace its snapshots live under.
type Source interface {
	contract.Provider
	Namespace() string
}

// New builds the source selected by the config.
func New(cfg *contract.Config, samples contract.SampleStore) (Source, error) {
	switch cfg.Provider {
	case schema.SQLProvider:
		if samples == nil {
			return nil, ErrNoSampleStore
		}
		return NewSQL(samples, cfg.HeightMeters), nil
	case schema.SyntheticProvider, "":
		return NewSynthetic(cfg.SyntheticSeed, cfg.SyntheticYears, cfg.HeightMeters), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
