package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskline/txrisk/internal/domain/service"
	"github.com/riskline/txrisk/internal/domain/valueobject"
)

func TestDefaultEngineConfigIsValid(t *testing.T) {
	cfg := service.DefaultEngineConfig()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.Strategy.Equal(valueobject.StrategyLogistic))
	assert.Equal(t, 0.65, cfg.Additive.Threshold)
	assert.Equal(t, 0.60, cfg.Logistic.Threshold)
	assert.True(t, cfg.HardBlockCeiling.Equal(decimal.New(1, 12)))
}

func TestEngineConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*service.EngineConfig)
	}{
		{"missing strategy", func(c *service.EngineConfig) { c.Strategy = valueobject.Strategy{} }},
		{"negative weight", func(c *service.EngineConfig) { c.Logistic.Weights[service.SlotDevice] = -1 }},
		{"threshold above one", func(c *service.EngineConfig) { c.Additive.Threshold = 1.5 }},
		{"negative points", func(c *service.EngineConfig) { c.Rules.Points.Emulator = -0.1 }},
		{"zero log divisor", func(c *service.EngineConfig) { c.Rules.Amount.LogDivisor = 0 }},
		{"empty cities", func(c *service.EngineConfig) { c.Rules.IndianCities = nil }},
		{"blend weight out of range", func(c *service.EngineConfig) { c.Blend.LogisticWeight = 1.2 }},
		{"non-positive ceiling", func(c *service.EngineConfig) { c.HardBlockCeiling = decimal.Zero }},
		{"challenge threshold", func(c *service.EngineConfig) { c.ChallengeThreshold = -0.1 }},
		{"noise without amplitude", func(c *service.EngineConfig) { c.Noise = service.NoiseConfig{Enabled: true} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := service.DefaultEngineConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())

			_, err := service.NewEngineFromConfig(cfg, nil)
			assert.Error(t, err)
		})
	}
}

func TestEngineConfig_NewAggregator(t *testing.T) {
	for _, s := range []valueobject.Strategy{
		valueobject.StrategyAdditive,
		valueobject.StrategyLogistic,
		valueobject.StrategyBlended,
	} {
		cfg := service.DefaultEngineConfig()
		cfg.Strategy = s
		agg, err := cfg.NewAggregator()
		require.NoError(t, err)
		assert.True(t, agg.Strategy().Equal(s))
	}
}

func TestDefaultRuleSetIsIsolated(t *testing.T) {
	a := service.DefaultRuleSet()
	a.IndianCities[0] = "Springfield"

	b := service.DefaultRuleSet()
	assert.Equal(t, "Chennai", b.IndianCities[0])
}
