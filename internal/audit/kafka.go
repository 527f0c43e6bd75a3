package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaMirror produces every appended audit record to a Kafka topic for
// downstream consumers (SIEM pipelines, retention archives). Production is
// fire-and-forget: a broker outage never affects the append that triggered
// it.
type KafkaMirror struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaMirror connects a producer to the given brokers.
func NewKafkaMirror(brokers []string, topic string, logger *slog.Logger) (*KafkaMirror, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaMirror{client: client, topic: topic, logger: logger}, nil
}

// Publish produces the record keyed by its ID.
func (m *KafkaMirror) Publish(ctx context.Context, record Record) {
	msg, err := m.buildRecord(record)
	if err != nil {
		m.logger.ErrorContext(ctx, "marshal audit record for mirror", "record_id", record.ID, "error", err.Error())
		return
	}

	m.client.Produce(ctx, msg, func(r *kgo.Record, err error) {
		if err != nil {
			m.logger.Warn("audit mirror produce failed",
				"topic", m.topic,
				"record_id", string(r.Key),
				"error", err.Error(),
			)
		}
	})
}

// buildRecord is the wire form: one message per audit record, keyed by the
// record ID so replays and compaction keep per-record ordering.
func (m *KafkaMirror) buildRecord(record Record) (*kgo.Record, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal audit record: %w", err)
	}
	return &kgo.Record{
		Topic: m.topic,
		Key:   []byte(record.ID),
		Value: payload,
	}, nil
}

// Close flushes pending records and releases the client.
func (m *KafkaMirror) Close() {
	m.client.Close()
}
