package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes event envelopes to Kafka.  Publishing is best-effort:
// callers log failures but never fail the user-facing operation over an
// undelivered event.
type Producer struct {
	writer      WriterInterface
	topicPrefix string
	source      string
	metrics     *prometheus.AppMetrics
	log         logging.Logger
	closed      atomic.Bool
}

// NewProducer creates a Producer from config.  metrics may be nil.
func NewProducer(cfg config.KafkaConfig, source string, metrics *prometheus.AppMetrics, log logging.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: time.Second,
		Async:        cfg.Async,
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{writer: writer, topicPrefix: cfg.TopicPrefix, source: source, metrics: metrics, log: log}
}

// NewProducerWithWriter wires a pre-built writer, used by tests.
func NewProducerWithWriter(w WriterInterface, topicPrefix, source string, metrics *prometheus.AppMetrics, log logging.Logger) *Producer {
	return &Producer{writer: w, topicPrefix: topicPrefix, source: source, metrics: metrics, log: log}
}

// Publish wraps the payload in an envelope and writes it to topic.  The key
// partitions related events together (normally the document or application ID).
func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	envelope, err := NewEventEnvelope(topic, p.source, payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal event envelope")
	}

	msg := kafka.Message{
		Topic: p.fullTopic(topic),
		Key:   []byte(key),
		Value: value,
		Time:  envelope.Timestamp,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.record(topic, "failure")
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to publish event").WithDetail(topic)
	}
	p.record(topic, "success")

	p.log.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_id", envelope.EventID),
	)
	return nil
}

func (p *Producer) record(topic, status string) {
	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(topic, status).Inc()
	}
}

func (p *Producer) fullTopic(topic string) string {
	if p.topicPrefix == "" {
		return topic
	}
	return p.topicPrefix + "." + topic
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
