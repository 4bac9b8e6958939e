package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"floorwatch.app/tracker/common/logger"
	"floorwatch.app/tracker/common/otel"
	"floorwatch.app/tracker/core/config"
	"floorwatch.app/tracker/internal/queue"
	"floorwatch.app/tracker/internal/store"
	"floorwatch.app/tracker/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "worker starting", "env", cfg.Env)

	arango, err := store.NewArango(ctx, cfg.ArangoDB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to arangodb", "error", err)
		os.Exit(1)
	}
	if err := arango.EnsureDatabase(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to ensure database", "error", err)
		os.Exit(1)
	}
	if err := arango.EnsureCollections(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to ensure collections", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "arangodb connected", "database", cfg.ArangoDB.Database)

	redisOpts, err := redis.ParseURL(cfg.Events.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Events.RedisStream)

	consumer, err := queue.NewRedisConsumer(redisClient, queue.ConsumerConfig{
		Stream:       cfg.Events.RedisStream,
		Group:        cfg.Events.RedisGroup,
		Consumer:     cfg.Events.RedisConsumer,
		DLQStream:    cfg.Events.RedisDLQ,
		BatchSize:    10,
		Block:        5 * time.Second,
		MaxAttempts:  3,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	w := worker.New(consumer, store.NewIssueEventStore(arango))

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		if err := w.Run(runCtx); err != nil && err != context.Canceled {
			slog.ErrorContext(runCtx, "worker error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")
	cancel()
	w.Stop()

	if telemetry != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
		defer shutdownCancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "shutdown complete")
}
