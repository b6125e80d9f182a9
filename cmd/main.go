package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pocketdesk/internal/app"
	"pocketdesk/internal/config"
	"pocketdesk/internal/controller"
	"pocketdesk/internal/kv"
	"pocketdesk/internal/queue"
	"pocketdesk/internal/routes"
	"pocketdesk/internal/store"
	"pocketdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx := context.Background()
	cfg := config.Get()

	backend, closeBackend, err := kv.Open(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "Storage backend not available; exiting", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeBackend()

	opts := []store.Option{store.WithSaveDelay(cfg.SaveDelay)}
	queue.EnsureTopic(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaPartitions)
	publisher := queue.NewPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
	if publisher != nil {
		defer publisher.Close()
		opts = append(opts, store.WithNotifier(publisher))
	}

	st := store.New(backend, opts...)
	// Load before serving so no mutation runs against the provisional empty state.
	st.Load(ctx)
	saverCtx, stopSaver := context.WithCancel(ctx)
	defer stopSaver()
	st.Start(saverCtx)

	gin.SetMode(gin.ReleaseMode)
	handler := controller.New(app.New(st, cfg.Locale))
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(handler, cfg.JWTSecret),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort, "backend", cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown error", "error", err)
	}
	if err := st.Close(shutdownCtx); err != nil {
		logger.Error(ctx, "Final save failed", "error", err)
	}
	logger.Info(ctx, "Server stopped")
}
