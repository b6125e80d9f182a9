// Activity-log consumes the record change feed and writes one structured
// line per event. Configure with POCKETDESK_KAFKA_BROKERS,
// POCKETDESK_KAFKA_EVENTS_TOPIC and optionally POCKETDESK_ACTIVITY_LOG_FILE.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/viper"
	"pocketdesk/internal/worker"
	"pocketdesk/pkg/logger"
)

func initConfig() {
	viper.SetEnvPrefix("POCKETDESK")
	viper.AutomaticEnv()
	viper.SetDefault("KAFKA_EVENTS_TOPIC", "record-events")
	viper.SetDefault("ACTIVITY_GROUP", "activity-log")
	viper.SetDefault("LOG_LEVEL", "info")
}

func main() {
	initConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var out io.Writer = os.Stdout
	if path := viper.GetString("ACTIVITY_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error(ctx, "Open activity log failed", "error", err, "path", path)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	ctx = logger.WithContext(ctx, logger.New(out, viper.GetString("LOG_LEVEL"), "json"))

	var brokers []string
	for _, b := range strings.Split(viper.GetString("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		logger.Error(ctx, "POCKETDESK_KAFKA_BROKERS is not configured")
		os.Exit(1)
	}

	worker.Run(ctx, worker.Config{
		Brokers: brokers,
		Topic:   viper.GetString("KAFKA_EVENTS_TOPIC"),
		GroupID: viper.GetString("ACTIVITY_GROUP"),
	}, worker.LogSink)
}
