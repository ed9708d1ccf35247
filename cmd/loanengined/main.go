package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Leereal/microfinex-api-sub002/internal/application/usecase"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/calculation"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/service"
	"github.com/Leereal/microfinex-api-sub002/internal/infrastructure/config"
	"github.com/Leereal/microfinex-api-sub002/internal/infrastructure/kafka"
	pgRepo "github.com/Leereal/microfinex-api-sub002/internal/infrastructure/postgres"
	"github.com/Leereal/microfinex-api-sub002/internal/presentation/rest"
	pkgkafka "github.com/Leereal/microfinex-api-sub002/pkg/kafka"
	"github.com/Leereal/microfinex-api-sub002/pkg/observability"
	pkgpostgres "github.com/Leereal/microfinex-api-sub002/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	cfg.Validate()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	logger.Info("starting loan-engine",
		"http_port", cfg.MetricsPort,
		"interval", cfg.Engine.Interval.String(),
		"run_once", cfg.Engine.RunOnce,
	)

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
		Port:        cfg.MetricsPort,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	engineMetrics, err := observability.NewEngineMetrics(meterProvider.Meter(cfg.ServiceName))
	if err != nil {
		logger.Error("failed to register engine metrics", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pgCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: int32(cfg.DB.MaxConns),
		MinConns: int32(cfg.DB.MinConns),
	}
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(pgCfg.DSN(), cfg.MigrationsDir); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	loanRepo := pgRepo.NewLoanRepo(pool)
	orgRepo := pgRepo.NewOrganizationRepo(pool)
	settingsRepo := pgRepo.NewSettingsRepo(pool)
	uow := pgRepo.NewUnitOfWork(pool)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := kafka.NewEventPublisher(kafkaProducer, cfg.Kafka.EventTopic, logger)

	// Wire domain services.
	calculator := service.NewCalculator(calculation.DefaultRegistry())
	settings := service.NewSettingsResolver(settingsRepo)
	evaluator := service.NewChargeEvaluator()

	// Wire use cases.
	runUC := usecase.NewRunLifecycleUseCase(
		orgRepo, loanRepo, uow, settings, evaluator, publisher, engineMetrics, logger)
	calculateUC := usecase.NewCalculateLoanUseCase(calculator, settings, logger)
	quoteUC := usecase.NewQuoteLoanUseCase(calculator, logger)
	disburseUC := usecase.NewApplyDisbursementChargesUseCase(uow, evaluator, publisher, logger)
	waiveUC := usecase.NewWaiveLoanChargeUseCase(uow, logger)

	// HTTP server: pricing API, health probes and metrics.
	mux := http.NewServeMux()
	rest.NewPricingHandler(calculateUC, quoteUC, disburseUC, waiveUC, logger).RegisterRoutes(mux)
	rest.NewHealthHandler(logger, func(ctx context.Context) error {
		return pkgpostgres.HealthCheck(ctx, pool)
	}).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", cfg.MetricsPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Scheduler loop. The first run starts immediately; subsequent runs fire
	// on the configured interval.
	go func() {
		runLifecycle(ctx, runUC, logger)
		if cfg.Engine.RunOnce {
			cancel()
			return
		}

		ticker := time.NewTicker(cfg.Engine.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runLifecycle(ctx, runUC, logger)
			}
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("loan-engine stopped")
}

func runLifecycle(ctx context.Context, uc *usecase.RunLifecycleUseCase, logger *slog.Logger) {
	if ctx.Err() != nil {
		return
	}
	summary := uc.Execute(ctx)
	if summary.SystemError != "" {
		logger.Error("lifecycle run failed", "error", summary.SystemError)
	}
}
