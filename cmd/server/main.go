package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/forwarding-portal/internal/config"
	"github.com/iliyamo/forwarding-portal/internal/database"
	"github.com/iliyamo/forwarding-portal/internal/logging"
	"github.com/iliyamo/forwarding-portal/internal/middleware"
	"github.com/iliyamo/forwarding-portal/internal/notify"
	"github.com/iliyamo/forwarding-portal/internal/repository"
	"github.com/iliyamo/forwarding-portal/internal/router"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "forwarding-portal")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.DBMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	var sender notify.Sender = notify.NewLogSender(logger)
	if cfg.NotifyDriver == "amqp" {
		sender = notify.NewAMQPSender(cfg.AMQPURL, cfg.NotifyQueue, logger)
	}

	var policy middleware.AdminPolicy = middleware.OpenPolicy{}
	if cfg.AdminJWTSecret != "" {
		policy = middleware.NewJWTRolePolicy(cfg.AdminJWTSecret, cfg.AdminRoles...)
	} else {
		logger.Warn("ADMIN_JWT_SECRET is empty; admin routes are open")
	}

	// Redis backs rate limiting and the tracking cache; both pass through without it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Info("redis unavailable; rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	e, err := router.New(router.Deps{
		Store:      repository.NewSQLStorage(db),
		Notifier:   sender,
		Policy:     policy,
		Cache:      middleware.NewResponseCache(config.LoadCacheConfig(), rdb),
		RateLimit:  middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger),
		DB:         db,
		Logger:     logger,
		BcryptCost: cfg.BcryptCost,
	})
	if err != nil {
		logger.Fatal("router setup failed", zap.Error(err))
	}

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
