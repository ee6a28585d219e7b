// Package main запускает HTTP-сервер сервиса оформления заказов UCP.
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
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/ucp-checkout/internal/catalog"
	"github.com/mmeshcher/ucp-checkout/internal/config"
	"github.com/mmeshcher/ucp-checkout/internal/events"
	"github.com/mmeshcher/ucp-checkout/internal/handler"
	"github.com/mmeshcher/ucp-checkout/internal/repository"
	"github.com/mmeshcher/ucp-checkout/internal/service"
)

const (
	eventBuffer       = 1024
	redisRecentEvents = 500
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var store service.Store
	if cfg.DatabaseURI != "" {
		repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
		store = repo
	} else {
		sugar.Info("DATABASE_URI is empty, using in-memory session store")
		store = repository.NewMemoryRepository()
	}

	svc := service.NewService(store, catalog.New(), service.Config{
		BaseURL:                 cfg.BaseURL,
		BusinessName:            cfg.BusinessName,
		RequireReadyForComplete: cfg.RequireReadyForComplete,
	})
	defer svc.Close()

	recorder := events.NewRecorder(events.DefaultRecorderSize)

	var external events.Multi
	if cfg.RedisAddress != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		defer rdb.Close()
		external = append(external, events.NewRedisSink(rdb, redisRecentEvents))
		sugar.Infow("publishing events to redis", "addr", cfg.RedisAddress)
	}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink := events.NewKafkaSink(cfg.KafkaTopic, cfg.KafkaBrokers...)
		defer kafkaSink.Close()
		external = append(external, kafkaSink)
		sugar.Infow("publishing events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	sinks := events.Multi{recorder}
	var async *events.AsyncSink
	if len(external) > 0 {
		async = events.NewAsyncSink(external, eventBuffer, logger)
		sinks = append(sinks, async)
	}

	h := handler.NewHandler(svc, logger, events.NewTracker(sinks), recorder)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(cfg.RequestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Доставка событий во внешние приёмники
	if async != nil {
		g.Go(func() error {
			async.Run(ctx)
			if n := async.Dropped(); n > 0 {
				sugar.Warnw("events dropped", "count", n)
			}
			return nil
		})
	}

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting ucp checkout server", "addr", cfg.RunAddress, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
