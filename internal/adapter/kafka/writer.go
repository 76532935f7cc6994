// Package kafka publishes search audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/caretrials/trial-search-service/internal/config"
	"github.com/caretrials/trial-search-service/internal/domain"
)

// Writer produces search audit events to the configured Kafka topic.
// It implements search.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the audit topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAuditTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one search event and writes it to the audit topic.
func (w *Writer) Publish(ctx context.Context, event domain.SearchEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a SearchEvent into a Kafka message keyed by
// event ID so retries land on the same partition.
func serializeToMessage(event domain.SearchEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize search event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "condition", Value: []byte(event.Condition)},
			{Key: "cache_hit", Value: []byte(strconv.FormatBool(event.CacheHit))},
		},
	}, nil
}
