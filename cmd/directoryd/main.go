// Command directoryd runs the Directory service: session, quota, ACL, and
// sharing coordination in front of one or more Bucket services.
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
	"github.com/AntonioVentilii/vault-core/internal/logger"
	"github.com/AntonioVentilii/vault-core/internal/metrics"
	"github.com/AntonioVentilii/vault-core/internal/payment"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/transport/httprpc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

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

	// The Directory's own identity is derived from its auth secret rather
	// than configured separately: it has no bucket-style capacity to
	// advertise, only a DirectoryID stamped into every token it mints.
	self := principal.Principal([]byte(cfg.AuthSecret)[:principal.MaxLen])

	admins := make([]principal.Principal, 0, len(cfg.AdminPrincipalsHex))
	for _, hexID := range cfg.AdminPrincipalsHex {
		p, err := principal.FromHex(hexID)
		if err != nil {
			return fmt.Errorf("invalid DIRECTORY_ADMINS entry %q: %w", hexID, err)
		}
		admins = append(admins, p)
	}

	ledger := payment.NewLogLedger(log)
	guard := payment.NewGuard(ledger)

	store := directory.NewStore(cfg.DefaultQuotaBytes)
	client := bucketclient.NewHTTPClient(15 * time.Second)
	svc := directory.NewService(store, self, []byte(cfg.AuthSecret), principal.NewSet(admins...), guard, client, ledger)

	metrics.SetAppInfo("1.0.0", cfg.Environment, "directoryd")

	mux := httprpc.NewMux(
		directory.Routes(svc),
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
		log.Info("directoryd starting", "port", cfg.Port)
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

	log.Info("directoryd stopped gracefully")
	return nil
}
