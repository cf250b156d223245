package stream

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"swiftbus/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Producer publishes booking lifecycle events. The service runs fine without
// a broker: callers hold a nil-safe Publisher and every publish failure is
// logged, never surfaced to the request path.
type Producer interface {
	Publish(ctx context.Context, event *BookingEvent) error
	Close() error
	HealthCheck(ctx context.Context) error
}

// KafkaProducerConfig contains configuration for the Kafka event producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "booking-events",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaProducer publishes booking events to Kafka
type KafkaProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	log      *logger.Logger
}

// NewKafkaProducer creates a new Kafka booking-event producer
func NewKafkaProducer(config *KafkaProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps one bus's events on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		config:   config,
		log:      logger.GetDefault(),
	}, nil
}

// Publish publishes a single booking event
func (p *KafkaProducer) Publish(ctx context.Context, event *BookingEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(event.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: event.OccurredAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("event_id"), Value: []byte(event.ID)},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send booking event to Kafka: %w", err)
	}

	p.log.Debug("Booking event published",
		slog.String("topic", p.config.Topic),
		slog.Int64("partition", int64(partition)),
		slog.Int64("offset", offset),
		slog.String("type", string(event.Type)),
		slog.String("bus_id", event.BusID),
	)

	return nil
}

// Close shuts down the underlying producer
func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}

// HealthCheck verifies the producer can reach the cluster
func (p *KafkaProducer) HealthCheck(ctx context.Context) error {
	probe := &BookingEvent{
		ID:         uuid.NewString(),
		Type:       "health.check",
		BusID:      "health",
		OccurredAt: time.Now(),
	}
	return p.Publish(ctx, probe)
}

// Publisher wraps a Producer so callers never have to nil-check. Publish
// failures are logged and swallowed: the durable seat write has already
// committed and the stream is advisory.
type Publisher struct {
	producer Producer
	log      *logger.Logger
}

// NewPublisher creates a nil-safe publisher; producer may be nil
func NewPublisher(producer Producer) *Publisher {
	return &Publisher{
		producer: producer,
		log:      logger.GetDefault(),
	}
}

// Publish sends the event if a producer is configured
func (p *Publisher) Publish(ctx context.Context, event *BookingEvent) {
	if p == nil || p.producer == nil {
		return
	}
	if err := p.producer.Publish(ctx, event); err != nil {
		p.log.Warn("Failed to publish booking event",
			slog.String("type", string(event.Type)),
			slog.String("bus_id", event.BusID),
			slog.Any("error", err),
		)
	}
}
