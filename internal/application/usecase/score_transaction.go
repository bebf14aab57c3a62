package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskline/txrisk/internal/application/dto"
	"github.com/riskline/txrisk/internal/domain/event"
	"github.com/riskline/txrisk/internal/domain/model"
	"github.com/riskline/txrisk/internal/domain/port"
	"github.com/riskline/txrisk/internal/domain/service"
	"github.com/riskline/txrisk/internal/domain/valueobject"
	"github.com/riskline/txrisk/pkg/events"
)

const tracerName = "github.com/riskline/txrisk/internal/application/usecase"

// ScoreTransaction is the use case for scoring a single transaction.
type ScoreTransaction struct {
	engine             *service.Engine
	publisher          port.EventPublisher
	metrics            port.ScoreMetrics
	logger             *slog.Logger
	tracer             trace.Tracer
	challengeThreshold float64
}

// NewScoreTransaction creates a new ScoreTransaction use case. metrics may
// be nil.
func NewScoreTransaction(
	engine *service.Engine,
	publisher port.EventPublisher,
	metrics port.ScoreMetrics,
	logger *slog.Logger,
	challengeThreshold float64,
) *ScoreTransaction {
	return &ScoreTransaction{
		engine:             engine,
		publisher:          publisher,
		metrics:            metrics,
		logger:             logger,
		tracer:             otel.Tracer(tracerName),
		challengeThreshold: challengeThreshold,
	}
}

// Execute validates the request, scores it, derives the action and
// publishes domain events.
func (uc *ScoreTransaction) Execute(ctx context.Context, req dto.ScoreTransactionRequest) (dto.ScoreTransactionResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "ScoreTransaction")
	defer span.End()

	// 1. Validate and build the transaction record.
	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return dto.ScoreTransactionResponse{}, fmt.Errorf("failed to validate request: %w", err)
	}
	record, err := model.NewTransactionRecord(req.Params())
	if err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return dto.ScoreTransactionResponse{}, fmt.Errorf("failed to build transaction record: %w", err)
	}

	requestID := uuid.New()
	if req.RequestID != "" {
		requestID = uuid.MustParse(req.RequestID)
	}

	// 2. Score via the domain engine.
	result, err := uc.engine.Score(record)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.ScoreTransactionResponse{}, fmt.Errorf("failed to score transaction: %w", err)
	}

	// 3. Derive the action tier.
	action := valueobject.ActionFor(result.RiskScore, result.FraudFlag, uc.challengeThreshold)
	strategy := uc.engine.Strategy().String()

	span.SetAttributes(
		attribute.String("txrisk.request_id", requestID.String()),
		attribute.String("txrisk.strategy", strategy),
		attribute.String("txrisk.action", action.String()),
		attribute.Float64("txrisk.risk_score", result.RiskScore),
		attribute.Bool("txrisk.fraud_flag", result.FraudFlag),
		attribute.Bool("txrisk.hard_blocked", result.HardBlocked),
	)

	// 4. Record metrics.
	if uc.metrics != nil {
		uc.metrics.RecordScore(ctx, strategy, action.String(), result.RiskScore, result.HardBlocked)
	}

	// 5. Publish domain events. The score is already final, so a broker
	// failure is logged rather than returned.
	var collector events.EventCollector
	collector.Record(event.NewTransactionScored(
		requestID, strategy, result.EngineLabel, action.String(),
		result.RiskScore, result.FraudFlag, result.HardBlocked, result.Breakdown.Map(),
	))
	if action.IsBlocked() {
		collector.Record(event.NewTransactionFlagged(requestID, result.RiskScore, result.Breakdown.Labels()))
	}
	if collector.Len() > 0 {
		if err := uc.publisher.Publish(ctx, collector.Drain()...); err != nil {
			span.RecordError(err)
			uc.logger.Error("failed to publish scoring events",
				"request_id", requestID,
				"error", err,
			)
		}
	}

	uc.logger.Debug("transaction scored",
		"request_id", requestID,
		"strategy", strategy,
		"risk_score", result.RiskScore,
		"action", action.String(),
	)

	return dto.FromResult(requestID, strategy, action.String(), result), nil
}
