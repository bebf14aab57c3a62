package service_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskline/txrisk/internal/domain/service"
)

func TestFeatureExtractor_EvaluatesAllRules(t *testing.T) {
	x := service.NewFeatureExtractor(service.DefaultRuleSet())

	s := x.Extract(tx(t, "5000", "Mumbai", "Android Emulator", "8.8.8.8", "UPI", "Late Night"))

	require.Len(t, s.Rules, 4)
	assert.Len(t, s.Triggered(), 4)
	assert.Equal(t, "High Value Velocity (UPI)", s.Amount.Label)
	assert.Equal(t, 5000.0, s.Amount.Value)
}

func TestFeatureExtractor_InverseGeoAddsRule(t *testing.T) {
	rules := service.DefaultRuleSet()
	rules.InverseGeoEnabled = true
	x := service.NewFeatureExtractor(rules)

	s := x.Extract(tx(t, "5000", "Berlin", "Mobile", "157.1.1.1", "Card", "Noon"))

	require.Len(t, s.Rules, 5)
	triggered := s.Triggered()
	require.Len(t, triggered, 1)
	assert.Equal(t, service.LabelForeignIndianIP, triggered[0].Label)
	assert.Equal(t, service.SlotGeo, triggered[0].Slot)
}

func TestIsIndianIP(t *testing.T) {
	prefixes := service.DefaultIndianIPPrefixes

	assert.True(t, service.IsIndianIP("49.36.0.1", prefixes, "127.0.0.1"))
	assert.True(t, service.IsIndianIP("127.0.0.1", prefixes, "127.0.0.1"))
	assert.False(t, service.IsIndianIP("8.8.8.8", prefixes, "127.0.0.1"))
	assert.False(t, service.IsIndianIP("149.1.1.1", prefixes, "127.0.0.1"))
	assert.False(t, service.IsIndianIP("127.0.0.1", prefixes, ""))
}

func TestAmountImpacts(t *testing.T) {
	s := service.DefaultRuleSet().Amount

	assert.Equal(t, 0.0, service.LogAmountImpact(0, s))
	assert.Equal(t, 0.0, service.LogAmountImpact(1, s))
	assert.InDelta(t, math.Log10(75000)/7, service.LogAmountImpact(75000, s), 1e-12)
	assert.Equal(t, 1.2, service.LogAmountImpact(1e12, s))

	assert.Equal(t, 0.0, service.LinearAmountImpact(0, s))
	assert.InDelta(t, 0.25*0.2, service.LinearAmountImpact(10000, s), 1e-12)
	assert.Equal(t, 0.2, service.LinearAmountImpact(1e9, s))
}

func TestLogisticAggregator_FeaturesTakeSlotMax(t *testing.T) {
	rules := service.DefaultRuleSet()
	agg := service.NewLogisticAggregator(service.DefaultLogisticConfig())

	s := service.Signals{Rules: []service.RiskSignal{
		{Label: "a", Slot: service.SlotGeo, Intensity: 0.4, Triggered: true},
		{Label: "b", Slot: service.SlotGeo, Intensity: 1.0, Triggered: true},
		{Label: "c", Slot: service.SlotDevice, Intensity: 1.0, Triggered: false},
	}, Amount: service.AmountSignal{LogImpact: service.LogAmountImpact(100, rules.Amount)}}

	f := agg.Features(s)
	assert.Equal(t, 1.0, f[service.SlotGeo])
	assert.Equal(t, 0.0, f[service.SlotDevice])
	assert.InDelta(t, 2.0/7, f[service.SlotAmount], 1e-12)
	assert.InDelta(t, -2.0+3.5+2.5*2.0/7, agg.Logit(s), 1e-12)
}

func TestSigmoid(t *testing.T) {
	assert.Equal(t, 0.5, service.Sigmoid(0))
	assert.InDelta(t, 0.1192, service.Sigmoid(-2), 1e-4)
	assert.Greater(t, service.Sigmoid(10), 0.9999)
}
