package service

import (
	"fmt"
	"math"

	"github.com/riskline/txrisk/internal/domain/model"
	"github.com/riskline/txrisk/internal/domain/valueobject"
)

const (
	LogisticEngineLabel = "AI Inference Engine (TensorFlow-Compatible Weights) v3.0"

	DefaultLogisticBias               = -2.0
	DefaultLogisticThreshold          = 0.60
	DefaultLogisticHighValueThreshold = 100000.0
	DefaultLogisticHighValuePoints    = 0.35
)

// DefaultLogisticWeights are aligned to Geo, Device, Context, Temporal, Amount.
var DefaultLogisticWeights = [FeatureCount]float64{3.5, 5.5, 6.0, 1.5, 2.5}

// LogisticConfig configures the sigmoid strategy.
type LogisticConfig struct {
	Weights            [FeatureCount]float64 `yaml:"weights"`
	Bias               float64               `yaml:"bias"`
	Threshold          float64               `yaml:"threshold"`
	HighValueThreshold float64               `yaml:"high_value_threshold"`
	HighValuePoints    float64               `yaml:"high_value_points"`
}

// DefaultLogisticConfig returns the calibrated weights and bias.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{
		Weights:            DefaultLogisticWeights,
		Bias:               DefaultLogisticBias,
		Threshold:          DefaultLogisticThreshold,
		HighValueThreshold: DefaultLogisticHighValueThreshold,
		HighValuePoints:    DefaultLogisticHighValuePoints,
	}
}

// Validate checks the configuration. Negative weights are rejected because
// they would make the score decrease as evidence increases.
func (c LogisticConfig) Validate() error {
	for i, w := range c.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("logistic: weight %d must be a finite non-negative number, got %v", i, w)
		}
	}
	if math.IsNaN(c.Bias) || math.IsInf(c.Bias, 0) {
		return fmt.Errorf("logistic: bias must be finite")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("logistic: threshold must be within [0,1], got %v", c.Threshold)
	}
	if c.HighValueThreshold < 0 || c.HighValuePoints < 0 {
		return fmt.Errorf("logistic: high value threshold and points must not be negative")
	}
	return nil
}

// LogisticAggregator computes sigmoid(bias + features·weights).
//
// The breakdown reports each triggered rule's fixed point estimate rather
// than its exact share of the logit. It is an explanation for humans, not a
// decomposition of the score.
type LogisticAggregator struct {
	config LogisticConfig
}

// NewLogisticAggregator creates a LogisticAggregator.
func NewLogisticAggregator(config LogisticConfig) *LogisticAggregator {
	return &LogisticAggregator{config: config}
}

// Features builds the feature vector for signals. When two triggered rules
// share a slot the larger intensity wins.
func (a *LogisticAggregator) Features(signals Signals) [FeatureCount]float64 {
	var features [FeatureCount]float64
	for _, r := range signals.Triggered() {
		features[r.Slot] = math.Max(features[r.Slot], r.Intensity)
	}
	features[SlotAmount] = signals.Amount.LogImpact
	return features
}

// Logit returns bias + features·weights.
func (a *LogisticAggregator) Logit(signals Signals) float64 {
	features := a.Features(signals)
	logit := a.config.Bias
	for i := range features {
		logit += features[i] * a.config.Weights[i]
	}
	return logit
}

// Combine implements Aggregator.
func (a *LogisticAggregator) Combine(signals Signals) model.ScoringResult {
	var breakdown model.Breakdown
	for _, r := range signals.Triggered() {
		breakdown = breakdown.With(r.Label, r.Points)
	}
	if signals.Amount.Value > a.config.HighValueThreshold {
		breakdown = breakdown.With(signals.Amount.Label, a.config.HighValuePoints)
	}

	risk := clamp01(Sigmoid(a.Logit(signals)))
	return model.ScoringResult{
		RiskScore:   risk,
		FraudFlag:   risk > a.config.Threshold,
		Breakdown:   breakdown,
		EngineLabel: LogisticEngineLabel,
	}
}

// Strategy implements Aggregator.
func (a *LogisticAggregator) Strategy() valueobject.Strategy { return valueobject.StrategyLogistic }

// Label implements Aggregator.
func (a *LogisticAggregator) Label() string { return LogisticEngineLabel }

// Threshold implements Aggregator.
func (a *LogisticAggregator) Threshold() float64 { return a.config.Threshold }

// Sigmoid is the logistic function 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
