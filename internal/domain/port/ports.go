package port

import (
	"context"

	"github.com/riskline/txrisk/pkg/events"
)

// Logger is the logging collaborator handed to the scoring engine.
// *slog.Logger satisfies it.
type Logger interface {
	Error(msg string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

// Error implements Logger.
func (NopLogger) Error(string, ...any) {}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// ScoreMetrics records scoring outcomes.
type ScoreMetrics interface {
	RecordScore(ctx context.Context, strategy, action string, riskScore float64, hardBlocked bool)
}
