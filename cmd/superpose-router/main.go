// Superpose router — сервис адаптивной маршрутизации запросов.
//
// Окружение:
//
//	ROUTER_PORT       порт HTTP API (default: 8080)
//	SUPERPOSE_CONFIG  путь к JSON-конфигурации групп (default: superpose.json)
//	DB_URL            Postgres для observations (пусто — in-memory store)
//	MQ_URL            RabbitMQ для событий (пусто — без событий)
//	MAINTENANCE_CRON  расписание maintenance-тиков (default: "@every 1m")
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Superpose/internal/api"
	"github.com/shaiso/Superpose/internal/config"
	"github.com/shaiso/Superpose/internal/executor"
	"github.com/shaiso/Superpose/internal/hedge"
	"github.com/shaiso/Superpose/internal/metrics"
	"github.com/shaiso/Superpose/internal/mq"
	"github.com/shaiso/Superpose/internal/race"
	"github.com/shaiso/Superpose/internal/repo"
	"github.com/shaiso/Superpose/internal/router"
	"github.com/shaiso/Superpose/internal/scheduler"
	"github.com/shaiso/Superpose/internal/selector"
	"github.com/shaiso/Superpose/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting superpose-router")

	// Загружаем конфигурацию групп
	configPath := os.Getenv("SUPERPOSE_CONFIG")
	if configPath == "" {
		configPath = "superpose.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	logger.Info("config loaded", "path", configPath, "groups", len(cfg.Groups))

	// Metrics Store: Postgres при наличии DB_URL, иначе in-memory
	var store metrics.Store
	var compactor metrics.Compactor

	if os.Getenv("DB_URL") != "" {
		pool, err := repo.NewPool(context.Background())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		obsRepo := repo.NewObservationRepo(pool)
		store = obsRepo
		compactor = obsRepo
		logger.Info("using postgres observation store")
	} else {
		memStore := metrics.NewMemoryStore()
		store = memStore
		compactor = memStore
		logger.Info("using in-memory observation store")
	}

	// RabbitMQ: опционально, деградируем без событий
	var publisher *mq.Publisher
	if url := os.Getenv("MQ_URL"); url != "" {
		conn, err := mq.NewConnection(url, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, events disabled", "error", err)
		} else {
			defer conn.Close()
			if err := mq.SetupTopology(conn); err != nil {
				logger.Warn("topology setup failed, events disabled", "error", err)
			} else {
				publisher = mq.NewPublisher(conn, logger)
				logger.Info("connected to rabbitmq")
			}
		}
	}

	// Executors
	registry := executor.NewRegistry()
	for i := range cfg.Groups {
		if err := registry.RegisterGroup(&cfg.Groups[i]); err != nil {
			logger.Error("failed to register executors", "group", cfg.Groups[i].Name, "error", err)
			os.Exit(1)
		}
	}
	invoker := executor.NewInvoker(registry, 0)

	// Метрики и статистика
	stats := metrics.NewStatsTable()
	ttl := time.Duration(cfg.ObservationTTLSec) * time.Second
	sink := metrics.NewSink(store, stats, ttl, logger)

	// Selector
	sel := selector.New(selector.Config{
		AdaptiveEnabled: cfg.Adaptive.Enabled,
		MinSamples:      cfg.Adaptive.MinSamples,
	}, stats)

	// Race coordinator и hedge orchestrator
	coordinator := race.New(race.Config{
		Invoker:   invoker,
		Sink:      sink,
		Publisher: publisher,
		Logger:    logger,
	})

	orchestrator := hedge.New(hedge.Config{
		Invoker:   invoker,
		Race:      coordinator,
		Store:     store,
		Sink:      sink,
		Publisher: publisher,
		Followups: cfg.SpeculativeFollowups,
		Logger:    logger,
	})

	// Router
	rt := router.New(router.Config{
		Groups:   cfg.Groups,
		Selector: sel,
		Hedge:    orchestrator,
		Stats:    stats,
		Logger:   logger,
	})

	// Maintenance scheduler
	maint, err := scheduler.New(scheduler.Config{
		Compactor: compactor,
		Stats:     stats,
		Publisher: publisher,
		Groups:    cfg.Groups,
		CronExpr:  os.Getenv("MAINTENANCE_CRON"),
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := maint.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer maint.Stop()

	// HTTP API
	handler := api.NewHandler(api.Config{
		Router: rt,
		Store:  store,
		Stats:  stats,
		Logger: logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("ROUTER_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
