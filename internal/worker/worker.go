package worker

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/segmentio/kafka-go"
	"pocketdesk/internal/models"
	"pocketdesk/pkg/logger"
)

// Sink receives each decoded change event.
type Sink func(ctx context.Context, ev models.ChangeEvent) error

// Config selects what the consumer reads.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Run consumes change events until ctx is done, handing each to sink.
// Undecodable messages are logged and committed so they cannot block the
// partition.
func Run(ctx context.Context, cfg Config, sink Sink) {
	if len(cfg.Brokers) == 0 {
		logger.Info(ctx, "Consumer disabled (no Kafka brokers)")
		return
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "activity-log"
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	var processed int64
	logger.Info(ctx, "Kafka consumer started", "topic", cfg.Topic, "group", cfg.GroupID)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info(ctx, "Kafka consumer stopped", "processed", atomic.LoadInt64(&processed))
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := HandleMessage(ctx, msg.Value, sink); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
		atomic.AddInt64(&processed, 1)
	}
}

func HandleMessage(ctx context.Context, payload []byte, sink Sink) error {
	var ev models.ChangeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	return sink(ctx, ev)
}

// LogSink writes every event as a structured log line.
func LogSink(ctx context.Context, ev models.ChangeEvent) error {
	logger.Info(ctx, "Record change",
		"event_id", ev.EventID,
		"action", ev.Action,
		"kind", string(ev.Kind),
		"record_id", ev.RecordID,
		"at", ev.At,
	)
	return nil
}
