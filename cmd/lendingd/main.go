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

	"github.com/guildbank/lending/internal/application/usecase"
	"github.com/guildbank/lending/internal/domain/service"
	"github.com/guildbank/lending/internal/infrastructure/config"
	"github.com/guildbank/lending/internal/infrastructure/economy"
	"github.com/guildbank/lending/internal/infrastructure/messaging"
	pgRepo "github.com/guildbank/lending/internal/infrastructure/persistence/postgres"
	"github.com/guildbank/lending/internal/infrastructure/scheduler"
	grpcPresentation "github.com/guildbank/lending/internal/presentation/grpc"
	"github.com/guildbank/lending/internal/presentation/rest"
	"github.com/guildbank/lending/pkg/auth"
	pkgkafka "github.com/guildbank/lending/pkg/kafka"
	"github.com/guildbank/lending/pkg/observability"
	pkgpostgres "github.com/guildbank/lending/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Service: cfg.ServiceName,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	slog.SetDefault(logger)

	// Bad configuration is fatal; nothing below can run with it.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting lendingd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(ctx) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, cfg.DB)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if migErr := pkgpostgres.RunMigrations(cfg.DB.DSN(), "file://internal/infrastructure/persistence/postgres/migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	loanRepo := pgRepo.NewLoanRepo(pool)
	eventRepo := pgRepo.NewLoanEventRepo(pool)
	statementRepo := pgRepo.NewStatementRepo(pool)
	offerRepo := pgRepo.NewOfferRepo(pool)
	creditRepo := pgRepo.NewCreditRepo(pool)
	entityRepo := pgRepo.NewEntityRepo(pool)
	wallet := economy.NewPostgresWallet(pool)

	kafkaProducer := pkgkafka.NewProducer(cfg.Kafka)
	defer kafkaProducer.Close()
	publisher := messaging.NewKafkaEventPublisher(kafkaProducer, cfg.KafkaTopic, logger)

	// Domain engines.
	scoringEngine := service.NewCreditScoringEngine(creditRepo, publisher, cfg.Engine, logger)
	lifecycleEngine := service.NewLifecycleEngine(
		loanRepo, eventRepo, statementRepo, wallet, publisher, scoringEngine, cfg.Engine, logger,
	)

	// Wire use cases.
	extendOfferUC := usecase.NewExtendOfferUseCase(offerRepo, entityRepo, publisher, cfg.Engine)
	revokeOfferUC := usecase.NewRevokeOfferUseCase(offerRepo, publisher)
	getOfferUC := usecase.NewGetOfferUseCase(offerRepo)
	acceptOfferUC := usecase.NewAcceptOfferUseCase(offerRepo, loanRepo, eventRepo, wallet, scoringEngine, publisher, cfg.Engine)
	makePaymentUC := usecase.NewMakePaymentUseCase(lifecycleEngine)
	updateLoanUC := usecase.NewUpdateLoanUseCase(loanRepo, lifecycleEngine)
	autoPayUC := usecase.NewConfigureAutoPayUseCase(loanRepo, scoringEngine, publisher, lifecycleEngine)
	getLoanUC := usecase.NewGetLoanUseCase(loanRepo, lifecycleEngine)
	getStatementUC := usecase.NewGetStatementUseCase(statementRepo, lifecycleEngine)
	getScoreUC := usecase.NewGetCreditScoreUseCase(scoringEngine)
	bankruptcyUC := usecase.NewRecordBankruptcyUseCase(scoringEngine)
	sellLoanUC := usecase.NewSellLoanUseCase(loanRepo, wallet, publisher, lifecycleEngine)
	sweepUC := usecase.NewRunSweepUseCase(offerRepo, publisher, lifecycleEngine, logger)

	// Background sweep.
	sweeper, err := scheduler.NewSweeper(sweepUC, cfg.Engine, logger)
	if err != nil {
		logger.Error("failed to create sweeper", "error", err)
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// JWT service.
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Issuer: "guildbank",
		Secret: cfg.JWTSecret,
	})
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// gRPC server.
	handler := grpcPresentation.NewLoanHandler(
		extendOfferUC, revokeOfferUC, getOfferUC, acceptOfferUC, makePaymentUC, updateLoanUC,
		autoPayUC, getLoanUC, getStatementUC, getScoreUC, bankruptcyUC, sellLoanUC,
	)
	grpcServer := grpcPresentation.NewServer(handler, logger, jwtSvc)

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(pool, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("lendingd stopped")
}
