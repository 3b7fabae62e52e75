package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/brew-catalog-api/config"
	"github.com/oksasatya/brew-catalog-api/internal/container"
	gcsinfra "github.com/oksasatya/brew-catalog-api/internal/infrastructure/gcs"
	pginfra "github.com/oksasatya/brew-catalog-api/internal/infrastructure/postgres"
	"github.com/oksasatya/brew-catalog-api/internal/infrastructure/queue"
	"github.com/oksasatya/brew-catalog-api/internal/infrastructure/search"
	"github.com/oksasatya/brew-catalog-api/internal/interface/middleware"
	"github.com/oksasatya/brew-catalog-api/internal/router"
	"github.com/oksasatya/brew-catalog-api/pkg/helpers"
	"github.com/oksasatya/brew-catalog-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	// Redis holds the sessions
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatalf("failed to reach redis: %v", err)
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)

	// Optional collaborators: the catalog degrades without them
	if cfg.GCSBucket != "" {
		gcsClient, err := gcsinfra.NewClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	} else {
		logger.Warn("GCS_BUCKET not set; beer image uploads disabled")
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.Fatalf("failed to init elasticsearch: %v", err)
		}
		container.SetES(es)
	} else {
		logger.Info("ELASTICSEARCH_ADDRS not set; search uses postgres full-text")
	}

	if cfg.RabbitMQURL != "" {
		pub, err := queue.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQIndexQueue)
		if err != nil {
			logger.Fatalf("failed to init rabbitmq: %v", err)
		}
		defer pub.Close()
		container.SetRabbitPub(pub)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}

	reg := router.NewRegistry(r, "/")
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
