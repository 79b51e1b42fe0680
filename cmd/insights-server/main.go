package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"invoice-insights/internal/common/config"
	"invoice-insights/internal/common/database"
	"invoice-insights/internal/common/logger"
	"invoice-insights/internal/common/observability"
	"invoice-insights/internal/dispatch"
	"invoice-insights/internal/genai"
	"invoice-insights/internal/server"
	"invoice-insights/internal/store"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting insights server...",
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// The project-name cache is optional: with no Redis address configured,
	// lookups go straight to Postgres.
	var redisClient *redis.Client
	if cfg.Database.Redis.Address != "" {
		var rc *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, continuing without project cache", zap.Error(err))
		} else {
			defer rc.Close()
			redisClient = rc.Client
			zapLog.Info("Redis connected successfully")
		}
	}

	recordStore := store.New(pg.DB, redisClient,
		time.Duration(cfg.Database.Redis.CacheTTL)*time.Second, log)

	if err := recordStore.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema bootstrap failed", zap.Error(err))
	}
	zapLog.Info("Schema ensured")

	completer := genai.NewClient(&genai.Config{
		BaseURL:     cfg.GenAI.BaseURL,
		APIKey:      cfg.GenAI.APIKey,
		Model:       cfg.GenAI.Model,
		MaxTokens:   cfg.GenAI.MaxTokens,
		Temperature: cfg.GenAI.Temperature,
		Timeout:     time.Duration(cfg.GenAI.Timeout) * time.Millisecond,
	}, log)

	dispatcher := dispatch.New(recordStore, completer, log)

	srv := server.New(dispatcher, recordStore, obs,
		time.Duration(cfg.Query.Timeout)*time.Millisecond, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
