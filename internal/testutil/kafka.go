package testutil

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.6.1"

// KafkaBroker is a single-node Kafka running in a container.
type KafkaBroker struct {
	container *tckafka.KafkaContainer
	Brokers   []string
}

// StartKafka starts a broker that is terminated when t finishes. It skips
// the test under -short.
func StartKafka(ctx context.Context, t *testing.T) *KafkaBroker {
	t.Helper()
	if testing.Short() {
		t.Skip("kafka container not started in -short mode")
	}

	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("txrisk-test"))
	require.NoError(t, err, "start kafka container")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")

	return &KafkaBroker{container: container, Brokers: brokers}
}

// CreateTopic creates a single-partition topic through the controller.
func (b *KafkaBroker) CreateTopic(t *testing.T, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", b.Brokers[0])
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// ReadMessages reads n messages from the beginning of topic.
func (b *KafkaBroker) ReadMessages(ctx context.Context, t *testing.T, topic string, n int) []kafkago.Message {
	t.Helper()

	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     b.Brokers,
		Topic:       topic,
		StartOffset: kafkago.FirstOffset,
		MaxBytes:    1 << 20,
	})
	defer r.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msgs := make([]kafkago.Message, 0, n)
	for len(msgs) < n {
		m, err := r.ReadMessage(ctx)
		require.NoError(t, err, "read message %d of %d", len(msgs)+1, n)
		msgs = append(msgs, m)
	}
	return msgs
}

// Headers flattens kafka message headers.
func Headers(m kafkago.Message) map[string]string {
	h := make(map[string]string, len(m.Headers))
	for _, kv := range m.Headers {
		h[kv.Key] = string(kv.Value)
	}
	return h
}
