package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"farmrent-backend/internal/domain"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events for other services. Messages are keyed by request
// so one request's events stay ordered within a partition.
type Kafka struct {
	writer messageWriter
}

func NewKafka(brokers []string, topic string) *Kafka {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.Hash{}})
	return &Kafka{writer: w}
}

func (d *Kafka) Name() string { return "kafka" }

func (d *Kafka) Dispatch(ctx context.Context, event domain.Event) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	return d.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(strconv.FormatInt(event.RequestID, 10)),
		Value:   b,
		Headers: []kafka.Header{{Key: "kind", Value: []byte(event.Kind)}},
	})
}

func (d *Kafka) Close() error {
	if d.writer == nil {
		return nil
	}
	return d.writer.Close()
}
