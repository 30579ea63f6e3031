package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"finsafe/internal/amqp"
	"finsafe/internal/cli"
	"finsafe/internal/config"
	"finsafe/internal/log"
	"finsafe/internal/sheets"
	gsheet "finsafe/internal/sheets/google"
	mem "finsafe/internal/sheets/memory"
	"finsafe/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(slog.LevelInfo)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)
	logger = cli.SetupLogger(cfg.SlogLevel())

	logger.Info("Starting finsafe-alerts", log.FieldOperation, log.OpStartup)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Google Sheets is optional; without it alerts are only kept in SQLite
	// and in process memory.
	var sink sheets.AlertSink
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(context.Background(), gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleAlertsSheetName,
			CredentialsJSON: cfg.GoogleServiceAccount,
			CredentialsFile: cfg.GoogleServiceAcctFile,
			OAuthClientJSON: cfg.GoogleOAuthClientJSON,
			OAuthClientFile: cfg.GoogleOAuthClientFile,
			OAuthTokenFile:  cfg.GoogleOAuthTokenFile,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		sink = client
		logger.Info("Google Sheets alert sink initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleAlertsSheetName)
	} else {
		sink = mem.New()
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	alerts := worker.NewAlertWorker(repo, sink, cfg.AlertBatchSize, logger)

	var wg sync.WaitGroup
	ctx, stop, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		stopped := make(chan struct{})
		go func() {
			wg.Wait()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
		}
	})
	defer stop()

	wg.Add(2)
	go func() {
		defer wg.Done()
		alerts.Run(ctx, cfg.AlertRetryInterval)
	}()
	go func() {
		defer wg.Done()
		err := amqpClient.ConsumeBalanceAlerts(ctx, alerts.HandleAlert)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err, log.FieldOperation, log.OpConsume)
		}
		stop()
	}()

	logger.Info("finsafe-alerts started",
		"queue", cfg.AMQPQueue,
		"retry_interval", cfg.AlertRetryInterval,
		"batch_size", cfg.AlertBatchSize)

	cli.WaitForShutdown(ctx, done)
	logger.Info("finsafe-alerts stopped")
}
