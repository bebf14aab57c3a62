package service

import (
	"fmt"

	"github.com/riskline/txrisk/internal/domain/model"
	"github.com/riskline/txrisk/internal/domain/valueobject"
)

const (
	AdditiveEngineLabel = "Additive Rule Engine v1"

	// DefaultAdditiveAmountFloor is the linear amount impact at or below
	// which the amount contributes nothing.
	DefaultAdditiveAmountFloor = 0.05
)

// AdditiveConfig configures the capped-sum strategy.
type AdditiveConfig struct {
	Threshold   float64 `yaml:"threshold"`
	AmountFloor float64 `yaml:"amount_floor"`
}

// DefaultAdditiveConfig uses the balanced profile threshold.
func DefaultAdditiveConfig() AdditiveConfig {
	return AdditiveConfig{
		Threshold:   valueobject.ProfileBalanced.Threshold(),
		AmountFloor: DefaultAdditiveAmountFloor,
	}
}

// Validate checks the configuration.
func (c AdditiveConfig) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("additive: threshold must be within [0,1], got %v", c.Threshold)
	}
	if c.AmountFloor < 0 {
		return fmt.Errorf("additive: amount_floor must not be negative, got %v", c.AmountFloor)
	}
	return nil
}

// AdditiveAggregator sums each triggered rule's fixed points and caps the
// total at 1. Breakdown values equal exactly the summed contributions.
type AdditiveAggregator struct {
	config AdditiveConfig
}

// NewAdditiveAggregator creates an AdditiveAggregator.
func NewAdditiveAggregator(config AdditiveConfig) *AdditiveAggregator {
	return &AdditiveAggregator{config: config}
}

// Combine implements Aggregator.
func (a *AdditiveAggregator) Combine(signals Signals) model.ScoringResult {
	var (
		total     float64
		breakdown model.Breakdown
	)

	for _, r := range signals.Triggered() {
		total += r.Points
		breakdown = breakdown.With(r.Label, r.Points)
	}

	if impact := signals.Amount.LinearImpact; impact > a.config.AmountFloor {
		total += impact
		breakdown = breakdown.With(signals.Amount.Label, impact)
	}

	risk := clamp01(total)
	return model.ScoringResult{
		RiskScore:   risk,
		FraudFlag:   risk > a.config.Threshold,
		Breakdown:   breakdown,
		EngineLabel: AdditiveEngineLabel,
	}
}

// Strategy implements Aggregator.
func (a *AdditiveAggregator) Strategy() valueobject.Strategy { return valueobject.StrategyAdditive }

// Label implements Aggregator.
func (a *AdditiveAggregator) Label() string { return AdditiveEngineLabel }

// Threshold implements Aggregator.
func (a *AdditiveAggregator) Threshold() float64 { return a.config.Threshold }
