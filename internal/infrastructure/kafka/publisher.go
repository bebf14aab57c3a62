package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/riskline/txrisk/pkg/events"
	pkgkafka "github.com/riskline/txrisk/pkg/kafka"
)

// Header keys set on every scoring event.
const (
	HeaderEventType     = "event_type"
	HeaderEventID       = "event_id"
	HeaderAggregateType = "aggregate_type"
)

// MessageProducer is the subset of *pkgkafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Publisher writes scoring events to one topic. Messages are keyed by the
// scoring request ID so every event of a request lands on one partition,
// in publication order.
type Publisher struct {
	producer MessageProducer
	logger   *slog.Logger
	topic    string
}

// NewPublisher creates a Publisher for topic.
func NewPublisher(producer MessageProducer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, logger: logger}
}

// Publish implements port.EventPublisher. The batch is all-or-nothing:
// an event that fails to encode aborts it before anything is sent.
func (p *Publisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	batch := make([]pkgkafka.Message, len(domainEvents))
	for i, evt := range domainEvents {
		msg, err := encode(evt)
		if err != nil {
			return err
		}
		batch[i] = msg
	}

	if err := p.producer.Publish(ctx, p.topic, batch...); err != nil {
		return fmt.Errorf("failed to publish %d scoring events to %s: %w", len(batch), p.topic, err)
	}

	p.logger.DebugContext(ctx, "scoring events published",
		slog.String("topic", p.topic),
		slog.String("request_id", domainEvents[0].AggregateID().String()),
		slog.Int("count", len(batch)),
	)
	return nil
}

func encode(evt events.DomainEvent) (pkgkafka.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return pkgkafka.Message{}, fmt.Errorf("failed to encode %s event: %w", evt.EventType(), err)
	}
	return pkgkafka.Message{
		Key:   []byte(evt.AggregateID().String()),
		Value: payload,
		Headers: map[string]string{
			HeaderEventType:     evt.EventType(),
			HeaderEventID:       evt.EventID().String(),
			HeaderAggregateType: evt.AggregateType(),
		},
	}, nil
}
