package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/riskline/txrisk/internal/domain/model"
	"github.com/riskline/txrisk/internal/domain/port"
	"github.com/riskline/txrisk/internal/domain/valueobject"
)

// DefaultHardBlockCeiling is one trillion in the reference currency unit.
var DefaultHardBlockCeiling = decimal.New(1, 12)

// Engine scores transactions. It keeps no state between calls, so one
// Engine may serve any number of goroutines.
type Engine struct {
	extractor  *FeatureExtractor
	aggregator Aggregator
	ceiling    decimal.Decimal
	noise      NoiseSource
	logger     port.Logger
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithHardBlockCeiling overrides the amount above which scoring is bypassed.
func WithHardBlockCeiling(ceiling decimal.Decimal) EngineOption {
	return func(e *Engine) { e.ceiling = ceiling }
}

// WithNoise enables score perturbation.
func WithNoise(noise NoiseSource) EngineOption {
	return func(e *Engine) { e.noise = noise }
}

// WithLogger sets the logger used for internal computation failures.
func WithLogger(logger port.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an Engine.
func NewEngine(extractor *FeatureExtractor, aggregator Aggregator, opts ...EngineOption) *Engine {
	e := &Engine{
		extractor:  extractor,
		aggregator: aggregator,
		ceiling:    DefaultHardBlockCeiling,
		logger:     port.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the aggregation strategy in use.
func (e *Engine) Strategy() valueobject.Strategy {
	return e.aggregator.Strategy()
}

// Label returns the engine label reported with every result.
func (e *Engine) Label() string {
	return e.aggregator.Label()
}

// Score maps a transaction to a risk score, a fraud flag and a breakdown.
//
// Amounts above the hard-block ceiling short-circuit to the maximum score
// before any feature extraction. Errors are either *model.ValidationError
// or *model.InternalComputationError.
func (e *Engine) Score(tx model.TransactionRecord) (result model.ScoringResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = e.internalError(fmt.Errorf("panic during scoring: %v", r))
			result = model.ScoringResult{}
		}
	}()

	if err := tx.Validate(); err != nil {
		return model.ScoringResult{}, err
	}

	if tx.Amount().GreaterThan(e.ceiling) {
		return model.HardBlockResult(e.aggregator.Label()), nil
	}

	signals := e.extractor.Extract(tx)
	result = e.aggregator.Combine(signals)

	if e.noise != nil {
		result.RiskScore = clamp01(result.RiskScore + e.noise.Sample())
		result.FraudFlag = result.RiskScore > e.aggregator.Threshold()
	}

	if math.IsNaN(result.RiskScore) || result.RiskScore < 0 || result.RiskScore > 1 {
		return model.ScoringResult{}, e.internalError(fmt.Errorf("risk score %v outside [0,1]", result.RiskScore))
	}

	return result, nil
}

func (e *Engine) internalError(cause error) error {
	e.logger.Error("risk scoring failed",
		"engine", e.aggregator.Label(),
		"error", cause.Error(),
	)
	return model.NewInternalComputationError(cause)
}
