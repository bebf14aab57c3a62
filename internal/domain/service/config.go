package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/riskline/txrisk/internal/domain/port"
	"github.com/riskline/txrisk/internal/domain/valueobject"
)

// DefaultChallengeThreshold is the score above which an unflagged
// transaction is challenged with a one-time password.
const DefaultChallengeThreshold = 0.40

// NoiseConfig enables the opt-in noise source.
type NoiseConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Seed      uint64  `yaml:"seed"`
	Amplitude float64 `yaml:"amplitude"`
}

// EngineConfig is the full, externally adjustable engine configuration.
type EngineConfig struct {
	Strategy           valueobject.Strategy
	Profile            valueobject.Profile
	Rules              RuleSet
	Additive           AdditiveConfig
	Logistic           LogisticConfig
	Blend              BlendConfig
	HardBlockCeiling   decimal.Decimal
	ChallengeThreshold float64
	Noise              NoiseConfig
}

// DefaultEngineConfig returns the logistic engine with the calibrated tables.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Strategy:           valueobject.StrategyLogistic,
		Profile:            valueobject.ProfileBalanced,
		Rules:              DefaultRuleSet(),
		Additive:           DefaultAdditiveConfig(),
		Logistic:           DefaultLogisticConfig(),
		Blend:              DefaultBlendConfig(),
		HardBlockCeiling:   DefaultHardBlockCeiling,
		ChallengeThreshold: DefaultChallengeThreshold,
	}
}

// Validate checks every section of the configuration.
func (c EngineConfig) Validate() error {
	if c.Strategy.IsZero() {
		return fmt.Errorf("engine config: strategy is required")
	}
	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	if err := c.Additive.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	if err := c.Logistic.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	if err := c.Blend.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	if !c.HardBlockCeiling.IsPositive() {
		return fmt.Errorf("engine config: hard block ceiling must be positive")
	}
	if c.ChallengeThreshold < 0 || c.ChallengeThreshold > 1 {
		return fmt.Errorf("engine config: challenge threshold must be within [0,1], got %v", c.ChallengeThreshold)
	}
	if c.Noise.Enabled && (c.Noise.Amplitude <= 0 || c.Noise.Amplitude > 1) {
		return fmt.Errorf("engine config: noise amplitude must be within (0,1], got %v", c.Noise.Amplitude)
	}
	return nil
}

// NewAggregator builds the aggregator selected by c.Strategy.
func (c EngineConfig) NewAggregator() (Aggregator, error) {
	switch {
	case c.Strategy.Equal(valueobject.StrategyAdditive):
		return NewAdditiveAggregator(c.Additive), nil
	case c.Strategy.Equal(valueobject.StrategyLogistic):
		return NewLogisticAggregator(c.Logistic), nil
	case c.Strategy.Equal(valueobject.StrategyBlended):
		return NewBlendedAggregator(
			NewLogisticAggregator(c.Logistic),
			NewAdditiveAggregator(c.Additive),
			c.Blend,
		), nil
	default:
		return nil, fmt.Errorf("engine config: unsupported strategy %q", c.Strategy)
	}
}

// NewEngineFromConfig validates c and assembles an Engine.
func NewEngineFromConfig(c EngineConfig, logger port.Logger) (*Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	aggregator, err := c.NewAggregator()
	if err != nil {
		return nil, err
	}

	opts := []EngineOption{WithHardBlockCeiling(c.HardBlockCeiling)}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	if c.Noise.Enabled {
		opts = append(opts, WithNoise(NewSeededNoise(c.Noise.Seed, c.Noise.Amplitude)))
	}

	return NewEngine(NewFeatureExtractor(c.Rules), aggregator, opts...), nil
}
