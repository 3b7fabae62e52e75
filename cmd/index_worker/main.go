package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/brew-catalog-api/config"
	"github.com/oksasatya/brew-catalog-api/internal/container"
	pginfra "github.com/oksasatya/brew-catalog-api/internal/infrastructure/postgres"
	"github.com/oksasatya/brew-catalog-api/internal/infrastructure/queue"
	"github.com/oksasatya/brew-catalog-api/internal/infrastructure/search"
	"github.com/oksasatya/brew-catalog-api/internal/router"
	"github.com/oksasatya/brew-catalog-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-index-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQIndexQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if len(cfg.ESAddrs()) == 0 {
		logger.Fatal("Elasticsearch not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	es, err := search.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.Fatalf("failed to init elasticsearch: %v", err)
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetES(es)
	svc := router.BuildBeerService()

	conn, ch, err := queue.Open(cfg.RabbitMQURL, cfg.RabbitMQIndexQueue)
	if err != nil {
		logger.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQIndexQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	done := make(chan struct{})
	go func() {
		for msg := range msgs {
			handle(ctx, svc, logger, msg)
		}
		close(done)
	}()

	logger.Infof("index worker listening on queue=%s", cfg.RabbitMQIndexQueue)
	select {
	case <-ctx.Done():
	case <-done:
		logger.Warn("delivery channel closed")
		return
	}
	logger.Info("shutting down...")
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
