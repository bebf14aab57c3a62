package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskline/txrisk/internal/application/usecase"
	"github.com/riskline/txrisk/internal/domain/port"
	"github.com/riskline/txrisk/internal/domain/service"
	"github.com/riskline/txrisk/internal/domain/valueobject"
	"github.com/riskline/txrisk/internal/infrastructure/config"
	infrakafka "github.com/riskline/txrisk/internal/infrastructure/kafka"
	"github.com/riskline/txrisk/internal/infrastructure/messaging"
	"github.com/riskline/txrisk/internal/infrastructure/metrics"
	grpcpresentation "github.com/riskline/txrisk/internal/presentation/grpc"
	"github.com/riskline/txrisk/internal/presentation/rest"
	"github.com/riskline/txrisk/pkg/auth"
	pkgkafka "github.com/riskline/txrisk/pkg/kafka"
	"github.com/riskline/txrisk/pkg/observability"
	"github.com/riskline/txrisk/pkg/tlsutil"
)

const serviceName = "txrisk"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	logger.Info("starting txrisk",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"strategy", cfg.Engine.Strategy.String(),
	)

	// Initialize tracing.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: serviceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    cfg.OTLPInsecure,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	recorder, err := metrics.NewRecorder(meterProvider)
	if err != nil {
		logger.Error("failed to create metric instruments", "error", err)
		os.Exit(1)
	}

	// Wire infrastructure adapters.
	eventPublisher, eventsMode, closePublisher, err := newEventPublisher(cfg, logger)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer closePublisher()

	jwtService, err := newJWTService(cfg)
	if err != nil {
		logger.Error("failed to initialize authentication", "error", err)
		os.Exit(1)
	}

	// Wire domain services.
	engine, err := service.NewEngineFromConfig(cfg.Engine, logger)
	if err != nil {
		logger.Error("invalid engine configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Engine.Strategy == valueobject.StrategyBlended {
		logger.Info("blended strategy weights",
			"logistic", cfg.Engine.Blend.LogisticWeight,
			"additive", 1-cfg.Engine.Blend.LogisticWeight,
		)
	}
	if cfg.Engine.Noise.Enabled {
		logger.Warn("score noise enabled, results are not deterministic",
			"seed", cfg.Engine.Noise.Seed,
			"amplitude", cfg.Engine.Noise.Amplitude,
		)
	}

	// Wire use cases.
	scoreTransactionUC := usecase.NewScoreTransaction(engine, eventPublisher, recorder, logger, cfg.Engine.ChallengeThreshold)

	// gRPC server.
	grpcHandler := grpcpresentation.NewRiskServiceHandler(scoreTransactionUC, logger, jwtService != nil)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.TLSCertFile,
		TLSKeyFile:  cfg.TLSKeyFile,
		Reflection:  cfg.GRPCReflection,
	}, jwtService, logger)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// HTTP server (scoring, health checks, metrics).
	httpMux := http.NewServeMux()
	rest.NewScoreHandler(scoreTransactionUC, jwtService, logger).RegisterRoutes(httpMux)
	rest.NewHealthHandler(serviceName, map[string]string{
		"engine": engine.Label(),
		"events": eventsMode,
	}, logger).RegisterRoutes(httpMux)
	httpMux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      rest.WithRecovery(logger, rest.WithRequestLogging(logger, httpMux)),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if cfg.TLSEnabled() {
		tlsConfig, err := tlsutil.ServerTLSConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			logger.Error("failed to load HTTP TLS configuration", "error", err)
			os.Exit(1)
		}
		httpServer.TLSConfig = tlsConfig
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		var err error
		if httpServer.TLSConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("txrisk started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"engine", engine.Label(),
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down txrisk")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("txrisk stopped")
}

// newEventPublisher publishes to Kafka when brokers are configured and to
// the log otherwise.
func newEventPublisher(cfg *config.Config, logger *slog.Logger) (port.EventPublisher, string, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no Kafka brokers configured, logging domain events")
		return messaging.NewLogPublisher(logger), "log", func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(cfg.KafkaConfig())
	if err != nil {
		return nil, "", nil, err
	}
	closer := func() {
		if err := producer.Close(); err != nil {
			logger.Error("failed to close Kafka producer", "error", err)
		}
	}
	logger.Info("publishing domain events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return infrakafka.NewPublisher(producer, cfg.KafkaTopic, logger), "kafka", closer, nil
}

// newJWTService returns nil when no key material is configured.
func newJWTService(cfg *config.Config) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
	}
	if cfg.JWTPublicKeyFile != "" {
		pem, err := os.ReadFile(cfg.JWTPublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read JWT public key: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(pem)
	}
	if !jwtCfg.Enabled() {
		return nil, nil
	}
	return auth.NewJWTService(jwtCfg)
}
