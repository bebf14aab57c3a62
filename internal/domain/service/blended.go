package service

import (
	"fmt"

	"github.com/riskline/txrisk/internal/domain/model"
	"github.com/riskline/txrisk/internal/domain/valueobject"
)

const (
	BlendedEngineLabel = "Blended Engine v1"

	DefaultBlendWeight    = 0.7
	DefaultBlendThreshold = 0.70
)

// BlendConfig configures the blended strategy.
type BlendConfig struct {
	// LogisticWeight is the share of the logistic score; the additive
	// score gets the remainder.
	LogisticWeight float64 `yaml:"logistic_weight"`
	Threshold      float64 `yaml:"threshold"`
}

// DefaultBlendConfig returns a 70/30 logistic/additive blend.
func DefaultBlendConfig() BlendConfig {
	return BlendConfig{
		LogisticWeight: DefaultBlendWeight,
		Threshold:      DefaultBlendThreshold,
	}
}

// Validate checks the configuration.
func (c BlendConfig) Validate() error {
	if c.LogisticWeight < 0 || c.LogisticWeight > 1 {
		return fmt.Errorf("blended: logistic_weight must be within [0,1], got %v", c.LogisticWeight)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("blended: threshold must be within [0,1], got %v", c.Threshold)
	}
	return nil
}

// BlendedAggregator mixes the logistic and additive strategies:
// risk = w*logistic + (1-w)*additive. Each breakdown entry is blended with
// the same weights; a label missing from one side counts as zero there.
type BlendedAggregator struct {
	logistic *LogisticAggregator
	additive *AdditiveAggregator
	config   BlendConfig
}

// NewBlendedAggregator creates a BlendedAggregator.
func NewBlendedAggregator(logistic *LogisticAggregator, additive *AdditiveAggregator, config BlendConfig) *BlendedAggregator {
	return &BlendedAggregator{
		logistic: logistic,
		additive: additive,
		config:   config,
	}
}

// Combine implements Aggregator.
func (b *BlendedAggregator) Combine(signals Signals) model.ScoringResult {
	w := b.config.LogisticWeight
	l := b.logistic.Combine(signals)
	a := b.additive.Combine(signals)

	var breakdown model.Breakdown
	for _, e := range l.Breakdown.Entries() {
		av, _ := a.Breakdown.Get(e.Label)
		breakdown = breakdown.With(e.Label, w*e.Value+(1-w)*av)
	}
	for _, e := range a.Breakdown.Entries() {
		if !l.Breakdown.Has(e.Label) {
			breakdown = breakdown.With(e.Label, (1-w)*e.Value)
		}
	}

	risk := clamp01(w*l.RiskScore + (1-w)*a.RiskScore)
	return model.ScoringResult{
		RiskScore:   risk,
		FraudFlag:   risk > b.config.Threshold,
		Breakdown:   breakdown,
		EngineLabel: BlendedEngineLabel,
	}
}

// Strategy implements Aggregator.
func (b *BlendedAggregator) Strategy() valueobject.Strategy { return valueobject.StrategyBlended }

// Label implements Aggregator.
func (b *BlendedAggregator) Label() string { return BlendedEngineLabel }

// Weights returns the logistic and additive shares of the blend.
func (b *BlendedAggregator) Weights() (logistic, additive float64) {
	return b.config.LogisticWeight, 1 - b.config.LogisticWeight
}

// Threshold implements Aggregator.
func (b *BlendedAggregator) Threshold() float64 { return b.config.Threshold }
