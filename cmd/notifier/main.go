// Command notifier drains the notification queue and writes each event to
// logs/notifications.log.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/forwarding-portal/internal/config"
	"github.com/iliyamo/forwarding-portal/internal/logging"
	"github.com/iliyamo/forwarding-portal/internal/notify"
)

func main() {
	_ = godotenv.Load()

	logger, err := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), "notifier")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	queue := os.Getenv("NOTIFY_QUEUE")
	if queue == "" {
		queue = "notifications.outbound"
	}
	dir := os.Getenv("NOTIFY_LOG_DIR")
	if dir == "" {
		dir = "logs"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &notify.Consumer{URL: config.AMQPURL(), Queue: queue, LogDir: dir, Logger: logger}
	logger.Info("notifier started", zap.String("queue", queue), zap.String("dir", dir))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("notifier stopped", zap.Error(err))
	}
}
