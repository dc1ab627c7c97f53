package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/ai"
	"github.com/xela07ax/spaceai-agent-scene/internal/console/handler"
	"github.com/xela07ax/spaceai-agent-scene/internal/console/server"
	"github.com/xela07ax/spaceai-agent-scene/internal/console/service"
	"github.com/xela07ax/spaceai-agent-scene/internal/console/stream"
	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
	"github.com/xela07ax/spaceai-agent-scene/internal/infra"
	"github.com/xela07ax/spaceai-agent-scene/internal/infra/auth"
	"github.com/xela07ax/spaceai-agent-scene/internal/repository/postgres"
	"github.com/xela07ax/spaceai-agent-scene/internal/roster"
	"github.com/xela07ax/spaceai-agent-scene/internal/session"
	"github.com/xela07ax/spaceai-agent-scene/internal/sim"
	"github.com/xela07ax/spaceai-agent-scene/internal/tools"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 2. Ключи RS256 для консоли
	privateKey, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
	if err != nil {
		logger.Fatal("auth private key is required", zap.Error(err))
	}
	publicKey, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
	if err != nil {
		logger.Fatal("auth public key is required", zap.Error(err))
	}

	// 3. Источник ростера: конфиг или внешний Postgres
	var rosterProvider roster.Provider
	switch cfg.Roster.Source {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		repo, err := postgres.NewRosterRepo(ctx, cfg.Database)
		if err == nil {
			err = repo.Ping(ctx)
		}
		cancel()
		if err != nil {
			logger.Fatal("roster database unreachable", zap.Error(err))
		}
		defer repo.Close()
		rosterProvider = repo
	default:
		rosterProvider = roster.NewConfigProvider(cfg.Roster, logger)
	}

	// 4. Кэш AI-саммари: Redis в проде, память без него
	var summaryCache ai.SummaryCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("redis unreachable", zap.Error(err))
		}
		defer rdb.Close()
		summaryCache = ai.NewRedisSummaryCache(rdb)
	} else {
		logger.Warn("redis not configured, using in-memory summary cache")
		summaryCache = ai.NewMemorySummaryCache()
	}

	// 5. Метрики (регистр общий для ядра и AI-обвязки)
	reg := prometheus.NewRegistry()
	metrics := sim.NewMetrics(reg)

	// 6. AI-провайдер: мок для оффлайна или HTTP-клиент в защитной обертке
	var completer ai.Completer
	if cfg.AI.UseMock {
		logger.Warn("ai provider runs in mock mode")
		completer = &ai.MockCompleter{}
	} else {
		completer = ai.NewReliabilityWrapper(ai.NewHTTPClient(cfg.AI), cfg.AI, ai.NewAIMetrics(reg))
	}

	// Экспортируем метрики для Prometheus
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		logger.Info("metrics endpoint started", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics endpoint failed", zap.Error(err))
		}
	}()

	// 7. Сцена: зоны, websocket-хаб, менеджер сессий
	zones := sim.NewZoneDirectory(roster.ZonesFromConfig(cfg.Scene))
	hub := stream.NewHub(logger)

	manager := session.NewManager(session.Deps{
		Roster:     rosterProvider,
		Zones:      zones,
		Completer:  completer,
		Cache:      summaryCache,
		Metrics:    metrics,
		Logger:     logger,
		TickPeriod: cfg.Scene.TickPeriod,
		RandomSeed: cfg.Scene.RandomSeed,
		OnPublish: func(sessionID string, snap *domain.Snapshot) {
			hub.Broadcast(sessionID, snap)
		},
	})

	// Сессия по умолчанию: дашборд живет сразу после старта процесса
	defaultSession, err := manager.Create(context.Background())
	if err != nil {
		logger.Fatal("failed to start default session", zap.Error(err))
	}

	// 8. Консоль (Dependency Injection)
	authSvc := service.NewAuthService(cfg.Auth, privateKey, publicKey)
	toolRegistry := tools.NewRegistry(logger)

	consoleSrv := server.NewConsoleServer(
		logger,
		authSvc,
		handler.NewAuthHandler(authSvc),
		handler.NewSceneHandler(manager, defaultSession.ID, hub, logger),
		handler.NewAgentHandler(manager, defaultSession.ID, logger),
		handler.NewZoneHandler(zones, manager, defaultSession.ID, logger),
		handler.NewToolHandler(toolRegistry),
		handler.NewSessionHandler(manager, logger),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      consoleSrv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("scene console started",
			zap.String("addr", srv.Addr),
			zap.String("default_session", defaultSession.ID))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("scene console stopping")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// Движки дорабатывают начатый тик и останавливаются
	manager.StopAll()
	logger.Info("scene console exited properly")
}
