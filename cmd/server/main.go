package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"floorwatch.app/tracker/common/id"
	"floorwatch.app/tracker/common/logger"
	"floorwatch.app/tracker/common/otel"
	"floorwatch.app/tracker/core/config"
	"floorwatch.app/tracker/internal/http/middleware"
	httprouter "floorwatch.app/tracker/internal/http/router"
	"floorwatch.app/tracker/internal/queue"
	"floorwatch.app/tracker/internal/service"
	"floorwatch.app/tracker/internal/store"
)

const maxBodyBytes = 50 << 20 // photo uploads ride along as data URIs

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "tracker starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	// LOCAL_STORE_DIR switches the server to the on-device blob store, for
	// single-device deployments that run without a database.
	var issues store.IssueStore
	if cfg.LocalStore.Enabled() {
		kv, err := store.NewFileKV(cfg.LocalStore.Dir)
		if err != nil {
			slog.ErrorContext(ctx, "failed to open local issue store", "error", err)
			os.Exit(1)
		}
		issues = store.NewLocalIssueStore(kv)
		slog.InfoContext(ctx, "using on-device issue store", "dir", cfg.LocalStore.Dir)
	} else {
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
		issues = store.NewIssueStore(arango)
		slog.InfoContext(ctx, "arangodb connected", "database", cfg.ArangoDB.Database)
	}

	var eventProducer queue.Producer
	if cfg.Events.Enabled() {
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

		eventProducer = queue.NewRedisProducer(redisClient, cfg.Events.RedisStream, nil)
		defer eventProducer.Close()
	}

	services, err := service.NewServices(service.ServicesConfig{
		Issues:         issues,
		EventProducer:  eventProducer,
		Auth:           cfg.Auth,
		Catalog:        cfg.Catalog,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to build services", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.BodyLimit(maxBodyBytes))

	httprouter.SetupRoutes(router, services)

	return router
}
