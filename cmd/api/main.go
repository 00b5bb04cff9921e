package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dermaflow/skinsim/internal/api"
	"github.com/dermaflow/skinsim/internal/config"
	"github.com/dermaflow/skinsim/internal/queue"
	"github.com/dermaflow/skinsim/internal/ratelimit"
	"github.com/dermaflow/skinsim/internal/storage"
	"github.com/dermaflow/skinsim/internal/store"
	"github.com/dermaflow/skinsim/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.Lmsgprefix)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TraceConfig{
		ServiceName:  "skinsim-api",
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	}, logger)
	cancel()
	if err != nil {
		logger.Fatalf("tracing setup failed: %v", err)
	}

	queueClient := queue.NewClient(cfg.Queue.RedisClientOpt(), cfg.Queue.Name)
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Printf("queue client close error: %v", err)
		}
	}()

	jobStore := buildJobStore(cfg, logger)

	var objectStorage *storage.Client
	if client, err := storage.NewClient(storage.Config{
		Endpoint: cfg.Storage.Endpoint,
		Access:   cfg.Storage.AccessKey,
		Secret:   cfg.Storage.SecretKey,
		Bucket:   cfg.Storage.Bucket,
		UseSSL:   cfg.Storage.UseSSL,
	}); err != nil {
		logger.Printf("object storage unavailable: %v", err)
	} else {
		objectStorage = client
	}

	rateLimiter := buildRateLimiter(cfg, logger)

	opts := api.Options{
		PresignTTL:   cfg.API.PresignTTL,
		RateLimiter:  rateLimiter,
		UserIDHeader: cfg.API.UserIDHeader,
		Tracer:       otel.Tracer("skinsim/api"),
	}

	var app *api.Server
	if objectStorage != nil {
		app = api.NewServer(logger, queueClient, jobStore, objectStorage, opts)
	} else {
		app = api.NewServer(logger, queueClient, jobStore, nil, opts)
	}

	httpServer := &http.Server{
		Addr:         cfg.API.Addr,
		Handler:      app.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Printf("listening on %s", cfg.API.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Println("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Printf("tracing shutdown failed: %v", err)
	}
}

func buildJobStore(cfg config.Config, logger *log.Logger) store.JobStore {
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		logger.Printf("no POSTGRES_DSN set, using in-memory job store")
		return store.NewMemoryJobStore()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pgStore, err := store.NewPostgresJobStore(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Printf("postgres job store unavailable, using in-memory store: %v", err)
		return store.NewMemoryJobStore()
	}
	return pgStore
}

func buildRateLimiter(cfg config.Config, logger *log.Logger) api.RateLimiter {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Queue.RedisAddr,
		Password: cfg.Queue.RedisPassword,
		DB:       cfg.Queue.RedisDB,
	})

	limiter, err := ratelimit.NewRedisTokenBucket(
		redisClient,
		cfg.API.RateLimitCapacity,
		cfg.API.RateLimitWindow,
		"skinsim:ratelimit",
	)
	if err != nil {
		logger.Printf("rate limiter disabled: %v", err)
		return nil
	}
	return limiter
}
