package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"statusapi/internal/cache"
	"statusapi/internal/config"
	"statusapi/internal/db"
	"statusapi/internal/handlers"
	"statusapi/internal/logging"
	"statusapi/internal/readiness"
	"statusapi/internal/server"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		if errors.Is(err, readiness.ErrDependencyUnavailable) {
			logger.Error("could not connect to postgres or redis", zap.Error(err))
		} else {
			logger.Error("server exited", zap.Error(err))
		}
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DSN(), cfg.DB_MaxConns)
	if err != nil {
		return err
	}
	database := db.NewClient(pool)
	defer database.Close()

	rdb := cache.New(cfg.RedisAddr(), cfg.RedisPassword, cfg.RedisDB)
	defer rdb.Close()

	gate := readiness.New(database, rdb, cfg.ReadinessMaxAttempts, cfg.ReadinessDelay, logger)
	h := handlers.New(database, rdb, logger)
	router := server.NewRouter(cfg, h, logger)

	return server.New(cfg, router, gate, logger).Run(ctx)
}
