package worker

import (
	"context"
	"fmt"
	"time"

	"finsafe/internal/amqp"
	"finsafe/internal/core"
	"finsafe/internal/log"
	"finsafe/internal/metrics"
	"finsafe/internal/sheets"
	"finsafe/internal/storage"
)

// AlertStore is the persistence the worker needs. *storage.SQLiteRepository
// satisfies it.
type AlertStore interface {
	SaveBalanceAlert(ctx context.Context, a core.BalanceAlert) (id int64, created bool, err error)
	AlertsByStatus(ctx context.Context, status string, limit int) ([]storage.StoredAlert, error)
	ClaimBalanceAlert(ctx context.Context, id int64, status string) (bool, error)
	MarkExported(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64) error
}

var _ AlertStore = (*storage.SQLiteRepository)(nil)

// AlertWorker records balance alerts consumed from the broker and exports
// them to a sheet. Alerts whose export failed stay in storage and are
// retried by ProcessPending. Every export first claims its row, so an alert
// handled from the queue and retried at the same time is written once.
type AlertWorker struct {
	store     AlertStore
	sink      sheets.AlertSink
	batchSize int
	logger    *log.Logger
}

func NewAlertWorker(store AlertStore, sink sheets.AlertSink, batchSize int, logger *log.Logger) *AlertWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &AlertWorker{
		store:     store,
		sink:      sink,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleAlert processes one message from the alerts queue. Only a storage
// failure is returned, so the broker requeues the message; an export failure
// is left for ProcessPending.
func (w *AlertWorker) HandleAlert(ctx context.Context, msg *amqp.BalanceAlertMessage) error {
	a := msg.Alert
	w.logger.InfoContext(ctx, "Processing balance alert",
		log.FieldUserID, a.UserID,
		"observed_at", a.ObservedAt.Format(time.RFC3339))

	id, created, err := w.store.SaveBalanceAlert(ctx, a)
	if err != nil {
		metrics.AlertsProcessedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("save balance alert: %w", err)
	}
	if !created {
		metrics.AlertsProcessedTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	w.export(ctx, id, storage.ExportPending, a)
	return nil
}

// export claims the alert, appends it to the sink and records the outcome.
// It reports whether the alert reached the sink.
func (w *AlertWorker) export(ctx context.Context, id int64, status string, a core.BalanceAlert) bool {
	claimed, err := w.store.ClaimBalanceAlert(ctx, id, status)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to claim balance alert", "id", id, log.FieldError, err)
		return false
	}
	if !claimed {
		w.logger.DebugContext(ctx, "Balance alert already claimed", "id", id, "status", status)
		return false
	}

	ref, err := w.sink.AppendAlert(ctx, a)
	if err != nil {
		metrics.AlertsProcessedTotal.WithLabelValues("export_error").Inc()
		w.logger.ErrorContext(ctx, "Failed to export balance alert",
			"id", id, log.FieldUserID, a.UserID, log.FieldError, err)
		if err := w.store.MarkExportError(ctx, id); err != nil {
			w.logger.ErrorContext(ctx, "Failed to mark export error", "id", id, log.FieldError, err)
		}
		return false
	}

	if err := w.store.MarkExported(ctx, id); err != nil {
		w.logger.ErrorContext(ctx, "Failed to mark alert exported", "id", id, log.FieldError, err)
		return false
	}
	metrics.AlertsProcessedTotal.WithLabelValues("ok").Inc()
	w.logger.InfoContext(ctx, "Exported balance alert",
		"id", id, log.FieldUserID, a.UserID, "row_ref", ref)
	return true
}

// ProcessPending retries export for alerts that are pending or previously
// failed, up to one batch of each. It returns how many were exported.
func (w *AlertWorker) ProcessPending(ctx context.Context) (int, error) {
	exported := 0
	for _, status := range []string{storage.ExportPending, storage.ExportFailed} {
		alerts, err := w.store.AlertsByStatus(ctx, status, w.batchSize)
		if err != nil {
			return exported, fmt.Errorf("get %s alerts: %w", status, err)
		}
		if len(alerts) == 0 {
			continue
		}

		w.logger.InfoContext(ctx, "Retrying balance alert export",
			"status", status, "count", len(alerts))
		for _, stored := range alerts {
			if ctx.Err() != nil {
				return exported, ctx.Err()
			}
			if w.export(ctx, stored.ID, status, stored.Alert) {
				exported++
			}
		}
	}
	return exported, nil
}

// Run calls ProcessPending once immediately and then every interval until
// ctx is done.
func (w *AlertWorker) Run(ctx context.Context, interval time.Duration) {
	w.retry(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Stopping pending alert retries")
			return
		case <-ticker.C:
			w.retry(ctx)
		}
	}
}

func (w *AlertWorker) retry(ctx context.Context) {
	n, err := w.ProcessPending(ctx)
	if err != nil && ctx.Err() == nil {
		w.logger.ErrorContext(ctx, "Failed to process pending alerts", log.FieldError, err)
		return
	}
	if n > 0 {
		w.logger.InfoContext(ctx, "Exported pending balance alerts", "count", n)
	}
}
