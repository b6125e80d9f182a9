package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"pocketdesk/internal/models"
	"pocketdesk/pkg/logger"
)

// EnsureTopic creates the events topic with the given partitions (idempotent).
// Call at startup; if it fails (e.g. no broker or topic exists), the app still runs.
func EnsureTopic(ctx context.Context, brokers []string, topic string, partitions int) {
	if len(brokers) == 0 {
		return
	}
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", topic, "partitions", partitions)
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher sends change events to Kafka. It implements store.Notifier.
type Publisher struct {
	w MessageWriter
}

// NewPublisher returns an async writer for topic, or nil when no brokers are
// configured.
func NewPublisher(ctx context.Context, brokers []string, topic string) *Publisher {
	if len(brokers) == 0 {
		logger.Info(ctx, "Change feed disabled (no Kafka brokers)")
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 0,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
	}
	logger.Info(ctx, "Kafka producer initialized", "topic", topic, "brokers", brokers)
	return &Publisher{w: w}
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(w MessageWriter) *Publisher {
	return &Publisher{w: w}
}

// Publish writes ev keyed by record kind and id so events for one record
// land on one partition in order. Non-blocking with the async writer.
func (p *Publisher) Publish(ctx context.Context, ev models.ChangeEvent) error {
	msg, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.w.Close()
}

func EncodeEvent(ev models.ChangeEvent) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(string(ev.Kind) + ":" + ev.RecordID),
		Value: payload,
	}, nil
}
