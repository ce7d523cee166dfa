// Package main is the entry point for the mylist-service API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mylist-service/internal/app/service"
	"mylist-service/internal/config"
	"mylist-service/internal/domain"
	"mylist-service/internal/infra/catalog"
	"mylist-service/internal/infra/postgres"
	"mylist-service/internal/infra/postgres/migrations"
	rediscache "mylist-service/internal/infra/redis"
	"mylist-service/internal/job"
	"mylist-service/internal/logger"
	"mylist-service/internal/transport/httpserver"
	"mylist-service/internal/validator"
	"mylist-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting mylist-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := postgres.NewConnection(
		postgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			Name:         cfg.Database.Name,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	// Run migrations
	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	// Create repository
	repo := postgres.NewRepository(db)

	// Create catalog client
	catalogClient := catalog.New(
		catalog.ClientConfig{
			BaseURL: cfg.Catalog.BaseURL,
			Timeout: cfg.Catalog.Timeout,
			Retry: catalog.RetryConfig{
				MaxAttempts: cfg.Catalog.Retry.MaxAttempts,
				WaitTime:    cfg.Catalog.Retry.WaitTime,
				MaxWaitTime: cfg.Catalog.Retry.MaxWaitTime,
			},
			CB: catalog.CBConfig{
				MaxRequests:  cfg.Catalog.CB.MaxRequests,
				Interval:     cfg.Catalog.CB.Interval,
				Timeout:      cfg.Catalog.CB.Timeout,
				FailureRatio: cfg.Catalog.CB.FailureRatio,
			},
		},
		log.Logger,
	)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Ping Redis to verify connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	// Create cache implementation (optional, based on config)
	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		log.Info("cache enabled",
			zap.Duration("list_ttl", cfg.Cache.ListTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("cache disabled")
	}

	// Create services
	listSvc := service.NewListService(repo, catalogClient, cache, cfg.Cache.ListTTL, log.Logger)

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:      cfg.App.Port,
			BodyLimit: 1024 * 1024, // 1MB
			Debug:     cfg.App.Debug,
		},
		listSvc,
		db,
		v,
		log.Logger,
	)

	// Start the orphan audit scheduler with distributed locking (optional)
	var scheduler *job.AuditScheduler
	if cfg.Audit.Enabled {
		auditSvc := service.NewAuditService(repo, catalogClient, cfg.Audit.BatchSize, log.Logger)
		distLocker := locker.NewRedisLocker(redisClient, log.Logger)

		scheduler = job.NewAuditScheduler(
			auditSvc,
			job.AuditConfig{
				Interval:  cfg.Audit.Interval,
				Timeout:   cfg.Audit.Timeout,
				OnStartup: cfg.Audit.OnStartup,
			},
			log.Logger,
			distLocker,
		)
		scheduler.Start(cfg.Audit.OnStartup)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		// Shutdown server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
