package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"finsafe/internal/amqp"
	"finsafe/internal/api"
	"finsafe/internal/backend"
	"finsafe/internal/cache"
	"finsafe/internal/cli"
	"finsafe/internal/core"
	apphttp "finsafe/internal/http"
	"finsafe/internal/log"
	"finsafe/internal/services"
	"finsafe/internal/session"
)

const (
	analyticsCacheSize = 1000
	alertDedupSize     = 10000
	cleanupInterval    = time.Minute
	shutdownTimeout    = 30 * time.Second
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(slog.LevelInfo)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.SlogLevel())

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid session backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	sessionBackend, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize session backend", log.FieldError, err, log.FieldBackend, cfg.SessionBackend)
		os.Exit(1)
	}

	caches := cache.NewManager(logger)
	if sessionBackend.Cleaner != nil {
		caches.Register("sessions", sessionBackend.Cleaner)
	}
	var analytics *cache.LRUCache[core.Analytics]
	if cfg.CacheTTL > 0 {
		analytics = cache.NewLRUCache[core.Analytics](analyticsCacheSize, cfg.CacheTTL)
		caches.Register("analytics", analytics)
	}

	client := api.New(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Retries: cfg.APIRetries,
		Logger:  logger,
	})

	// Alerts are best effort: an unreachable broker only disables them.
	var (
		publisher *amqp.Client
		watcher   *services.BalanceWatcher
	)
	if cfg.AlertsEnabled() {
		publisher, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Balance alerts disabled, broker unreachable", log.FieldError, err)
			publisher = nil
		} else {
			sent := cache.NewLRUCache[bool](alertDedupSize, 24*time.Hour)
			caches.Register("alerts", sent)
			watcher = services.NewBalanceWatcher(publisher, sent, logger)
			logger.Info("Balance alerts enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("Balance alerts disabled - no AMQP_URL provided")
	}
	caches.StartCleanup(cleanupInterval)

	txs := services.NewTransactionService(client, analytics, watcher, logger)
	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Sessions: session.NewManager(sessionBackend.Store, session.ManagerConfig{
			CookieName: cfg.SessionCookieName,
			TTL:        cfg.SessionTTL,
			Secure:     cfg.SessionCookieSecure,
		}, logger),
		Auth:                   services.NewAuthService(client, logger),
		Txs:                    txs,
		Notes:                  services.NewNotesService(client, logger),
		Reports:                services.NewReportService(txs, logger),
		API:                    client,
		Logger:                 logger,
		RateLimitPerMinute:     cfg.RateLimitPerMinute,
		AuthRateLimitPerMinute: cfg.AuthRateLimitPerMinute,
		TrustedProxies:         cfg.TrustedProxies,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		caches.Stop()
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", log.FieldError, err)
			}
		}
		if sessionBackend.Cleanup != nil {
			if err := sessionBackend.Cleanup(); err != nil {
				logger.Warn("Failed to close session backend", log.FieldError, err)
			}
		}
	})
	defer stop()

	logger.Info("Starting finsafe server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		"api", client.BaseURL(),
		log.FieldBackend, cfg.SessionBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		stop()
		<-done
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
