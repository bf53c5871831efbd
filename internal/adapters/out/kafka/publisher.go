// Package kafka streams committed order events to a Kafka topic, one
// message per event keyed by the order id so a partition keeps the events
// of an order in sequence.
package kafka

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// Encoder renders an event as the message value.
type Encoder func(kernel.Event) ([]byte, error)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ ports.EventPublisher = &Publisher{}

type Publisher struct {
	writer MessageWriter
	encode Encoder
	logger *slog.Logger
}

func NewPublisher(writer MessageWriter, encode Encoder, logger *slog.Logger) (*Publisher, error) {
	if writer == nil {
		return nil, errors.New("kafka writer is required")
	}
	if encode == nil {
		return nil, errors.New("event encoder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{writer: writer, encode: encode, logger: logger.With("component", "kafka_publisher")}, nil
}

// NewWriter returns an asynchronous writer for topic, so Publish never
// waits for the brokers. Failed batches are logged.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *kafka.Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		},
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("failed to deliver order events to kafka",
					"topic", topic, "messages", len(messages), "error", err)
			}
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, events ...kernel.Event) {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := p.encode(e)
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to encode event", "event", e.Name, "id", e.ID.String(), "error", err)
			continue
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.AggregateID.String()),
			Value: value,
			Time:  e.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event", Value: []byte(e.Name)},
				{Key: "event_id", Value: []byte(e.ID.String())},
			},
		})
	}
	if len(msgs) == 0 {
		return
	}

	// Events are published after commit; a canceled request must not drop them.
	if err := p.writer.WriteMessages(context.WithoutCancel(ctx), msgs...); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish events", "count", len(msgs), "error", err)
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
