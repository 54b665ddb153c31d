// Command bucketd runs a single Bucket service: the raw chunk store behind
// capability-token verification.
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

	"github.com/AntonioVentilii/vault-core/internal/bucket"
	"github.com/AntonioVentilii/vault-core/internal/bucket/notify"
	"github.com/AntonioVentilii/vault-core/internal/config"
	"github.com/AntonioVentilii/vault-core/internal/logger"
	"github.com/AntonioVentilii/vault-core/internal/metrics"
	"github.com/AntonioVentilii/vault-core/internal/payment"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/transport/httprpc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadBucketConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(cfg.LogLevel)
	log := logger.Default()
	log.Info("configuration loaded")

	self, err := principal.FromHex(cfg.BucketPrincipalHex)
	if err != nil {
		return fmt.Errorf("invalid BUCKET_PRINCIPAL: %w", err)
	}

	admins := make([]principal.Principal, 0, len(cfg.AdminPrincipalsHex))
	for _, hexID := range cfg.AdminPrincipalsHex {
		p, err := principal.FromHex(hexID)
		if err != nil {
			return fmt.Errorf("invalid BUCKET_ADMINS entry %q: %w", hexID, err)
		}
		admins = append(admins, p)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher notify.Publisher = notify.NoopPublisher{}
	redisURL := os.Getenv("REDIS_URL")
	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opt)
		defer func() { _ = client.Close() }()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		publisher = notify.NewRedisPublisher(client)
		log.Info("chunk report publisher connected to redis")
	} else {
		log.Info("REDIS_URL unset, chunk report notifications disabled")
	}

	ledger := payment.NewLogLedger(log)
	guard := payment.NewGuard(ledger)

	svc := bucket.NewService(self, []byte(cfg.AuthSecret), principal.NewSet(admins...), guard, ledger, publisher, cfg.SoftLimitBytes, cfg.HardLimitBytes)

	metrics.SetAppInfo("1.0.0", cfg.Environment, "bucketd")

	mux := httprpc.NewMux(
		bucket.Routes(svc),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
		promhttp.Handler(),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("bucketd starting", "port", cfg.Port, "bucket", self.String())
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("shutdown signal received", "signal", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return fmt.Errorf("forced shutdown: %w", err)
		}
	}

	log.Info("bucketd stopped gracefully")
	return nil
}
