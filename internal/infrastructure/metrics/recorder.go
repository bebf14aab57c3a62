package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/riskline/txrisk"

// Recorder implements port.ScoreMetrics with OpenTelemetry instruments.
type Recorder struct {
	scored     metric.Int64Counter
	hardBlocks metric.Int64Counter
	scores     metric.Float64Histogram
}

// NewRecorder creates the scoring instruments on provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	scored, err := meter.Int64Counter("txrisk_scored_total",
		metric.WithDescription("Transactions scored, by strategy and action."),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: create scored counter: %w", err)
	}

	hardBlocks, err := meter.Int64Counter("txrisk_hard_blocks_total",
		metric.WithDescription("Transactions short-circuited by the hard-block guard."),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: create hard block counter: %w", err)
	}

	scores, err := meter.Float64Histogram("txrisk_risk_score",
		metric.WithDescription("Distribution of risk scores."),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.65, 0.7, 0.8, 0.9, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: create score histogram: %w", err)
	}

	return &Recorder{scored: scored, hardBlocks: hardBlocks, scores: scores}, nil
}

// RecordScore implements port.ScoreMetrics.
func (r *Recorder) RecordScore(ctx context.Context, strategy, action string, riskScore float64, hardBlocked bool) {
	attrs := metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("action", action),
	)
	r.scored.Add(ctx, 1, attrs)
	r.scores.Record(ctx, riskScore, metric.WithAttributes(attribute.String("strategy", strategy)))
	if hardBlocked {
		r.hardBlocks.Add(ctx, 1)
	}
}
