package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yatube/backend/config"
	"github.com/yatube/backend/internal/database"
	"github.com/yatube/backend/internal/logger"
	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/server"
	"github.com/yatube/backend/internal/storage"
	"github.com/yatube/backend/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Environment == config.Development); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sentryEnabled, err := middleware.InitSentry(cfg.SentryDSN, cfg.Environment.String())
	if err != nil {
		logger.L().Fatal("failed to initialize sentry", zap.Error(err))
	}
	if sentryEnabled {
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.Environment.String(), cfg.OTLPEndpoint)
	if err != nil {
		logger.L().Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			logger.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		logger.L().Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis is optional unless it backs the page cache
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = database.NewRedisClient(cfg)
		if err != nil {
			if cfg.CacheBackend == "redis" {
				logger.L().Fatal("failed to connect to redis", zap.Error(err))
			}
			logger.Warn("redis unavailable, rate limits fall back to memory", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	var media storage.Store
	if cfg.MediaBackend == "s3" {
		media, err = storage.NewS3Store(ctx, cfg.S3BucketName, cfg.AWSRegion)
		if err != nil {
			logger.L().Fatal("failed to initialize s3 media store", zap.Error(err))
		}
	}

	srv := server.New(cfg, db, server.Options{
		Redis:   rdb,
		Media:   media,
		Sentry:  sentryEnabled,
		Tracing: cfg.OTLPEndpoint != "",
	})

	logger.Info("starting server",
		zap.String("environment", cfg.Environment.String()),
		zap.String("db_driver", cfg.DBDriver),
		zap.String("cache_backend", cfg.CacheBackend),
		zap.String("media_backend", cfg.MediaBackend),
	)
	if err := srv.Run(ctx); err != nil {
		logger.L().Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
