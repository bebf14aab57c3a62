package service

import (
	"math"

	"github.com/riskline/txrisk/internal/domain/model"
	"github.com/riskline/txrisk/internal/domain/valueobject"
)

// Aggregator combines extracted signals into a scoring result. The additive,
// logistic and blended strategies all implement it.
type Aggregator interface {
	Combine(signals Signals) model.ScoringResult
	Strategy() valueobject.Strategy
	Label() string
	Threshold() float64
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
