// Command directoryworker runs the Directory's background maintenance: a
// periodic reaper for expired upload sessions and orphaned bucket chunks,
// dispatched through a job-queue worker pool, plus a best-effort
// chunk-report subscriber for observability.
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

	"github.com/AntonioVentilii/vault-core/internal/config"
	"github.com/AntonioVentilii/vault-core/internal/directory"
	"github.com/AntonioVentilii/vault-core/internal/directory/bucketclient"
	dirnotify "github.com/AntonioVentilii/vault-core/internal/directory/notify"
	"github.com/AntonioVentilii/vault-core/internal/directory/reaper"
	"github.com/AntonioVentilii/vault-core/internal/logger"
	"github.com/AntonioVentilii/vault-core/internal/metrics"
	"github.com/AntonioVentilii/vault-core/internal/payment"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/abdul-hamid-achik/job-queue/pkg/broker"
	"github.com/abdul-hamid-achik/job-queue/pkg/middleware"
	"github.com/abdul-hamid-achik/job-queue/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const sweepInterval = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadDirectoryConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(cfg.LogLevel)
	log := logger.Default()
	log.Info("configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zerologger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	self := principal.Principal([]byte(cfg.AuthSecret)[:principal.MaxLen])
	ledger := payment.NewLogLedger(log)
	guard := payment.NewGuard(ledger)

	// This worker holds its own in-memory Store, not directoryd's, so its
	// sweeps see only the sessions and placements of this process, not
	// those held by directoryd.
	store := directory.NewStore(cfg.DefaultQuotaBytes)
	client := bucketclient.NewHTTPClient(15 * time.Second)
	svc := directory.NewService(store, self, []byte(cfg.AuthSecret), principal.NewSet(), guard, client, ledger)

	metrics.SetAppInfo("1.0.0", cfg.Environment, "directoryworker")
	metrics.SetWorkerPoolSize(cfg.WorkerConcurrency)

	log.Info("connecting to redis")
	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	b := broker.NewRedisStreamsBroker(redisClient,
		broker.WithWorkerID(fmt.Sprintf("directoryworker-%d", os.Getpid())),
	)
	log.Info("broker initialized")

	registry := worker.NewRegistry()
	if err := reaper.RegisterHandler(registry, svc); err != nil {
		return fmt.Errorf("failed to register reaper handler: %w", err)
	}

	// reaper.Handler records its own job metrics directly, so the registry
	// only needs recovery, logging, and a deadline per sweep.
	registry.Use(
		middleware.RecoveryMiddleware(zerologger),
		middleware.LoggingMiddleware(zerologger),
		middleware.TimeoutMiddleware(30*time.Second),
	)

	workerPool := worker.NewPool(b, registry,
		worker.WithConcurrency(cfg.WorkerConcurrency),
		worker.WithPoolQueues([]string{"default"}),
		worker.WithPoolPollInterval(time.Second),
		worker.WithShutdownTimeout(30*time.Second),
		worker.WithPoolLogger(zerologger),
	)

	go reaper.StartScheduler(ctx, b, sweepInterval)

	subscriber := dirnotify.NewSubscriber(redisClient)
	go func() {
		if err := subscriber.Run(ctx); err != nil && err != context.Canceled {
			log.Error("chunk report subscriber stopped", "error", err)
		}
	}()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	metricsServer := &http.Server{Addr: ":9091", Handler: metricsMux}
	go func() {
		log.Info("metrics server starting", "port", 9091)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", "error", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	poolErr := make(chan error, 1)
	go func() {
		log.Info("starting worker pool", "sweep_interval", sweepInterval.String())
		poolErr <- workerPool.Start(ctx)
	}()

	select {
	case err := <-poolErr:
		if err != nil && err != context.Canceled {
			return fmt.Errorf("worker pool error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("shutdown signal received", "signal", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := workerPool.Stop(shutdownCtx); err != nil {
			log.Error("error stopping pool", "error", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error("error stopping metrics server", "error", err)
		}
		cancel()
	}

	log.Info("directoryworker stopped gracefully")
	return nil
}
