package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"finsafe/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned for missing or expired rows.
var ErrNotFound = errors.New("not found")

// Export states of a stored balance alert.
const (
	ExportPending = "pending"
	ExportDone    = "exported"
	ExportFailed  = "error"
)

// ExportClaimLease is how long a claim keeps other exporters off an alert.
// A claim older than this is treated as abandoned.
const ExportClaimLease = 10 * time.Minute

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

// StoredAlert is a balance alert together with its row ID and export state.
type StoredAlert struct {
	ID           int64
	Alert        core.BalanceAlert
	ExportStatus string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SaveSession inserts or replaces a serialized session.
func (r *SQLiteRepository) SaveSession(ctx context.Context, id string, data []byte, expiresAt time.Time) error {
	err := r.queries.UpsertSession(ctx, UpsertSessionParams{
		ID:        id,
		Data:      data,
		ExpiresAt: expiresAt.Unix(),
		UpdatedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the serialized session if it has not expired at now.
func (r *SQLiteRepository) LoadSession(ctx context.Context, id string, now time.Time) ([]byte, error) {
	s, err := r.queries.GetLiveSession(ctx, id, now.Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s.Data, nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, id string) error {
	if err := r.queries.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes every session that expired at or before now.
func (r *SQLiteRepository) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.queries.DeleteExpiredSessions(ctx, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	if n > 0 {
		slog.DebugContext(ctx, "Expired sessions purged", "count", n)
	}
	return n, nil
}

// SaveBalanceAlert stores an alert. created is false when the user already
// has an alert for the same UTC day; the existing row is left untouched.
func (r *SQLiteRepository) SaveBalanceAlert(ctx context.Context, a core.BalanceAlert) (id int64, created bool, err error) {
	observed := a.ObservedAt.UTC()
	id, err = r.queries.InsertBalanceAlert(ctx, InsertBalanceAlertParams{
		UserID:          a.UserID,
		UserName:        a.UserName,
		Email:           a.Email,
		NetBalanceCents: toCents(a.NetBalance),
		MinBalanceCents: toCents(a.MinBalance),
		ObservedAt:      observed.UnixMilli(),
		ObservedDay:     observed.Format(core.DateLayout),
		CreatedAt:       time.Now().UnixMilli(),
	})
	if errors.Is(err, sql.ErrNoRows) {
		slog.InfoContext(ctx, "Balance alert already recorded for today",
			"user_id", a.UserID,
			"day", observed.Format(core.DateLayout))
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("save balance alert: %w", err)
	}

	slog.InfoContext(ctx, "Balance alert saved to SQLite",
		"id", id,
		"user_id", a.UserID,
		"net_balance", a.NetBalance,
		"min_balance", a.MinBalance)

	return id, true, nil
}

func (r *SQLiteRepository) GetBalanceAlert(ctx context.Context, id int64) (StoredAlert, error) {
	row, err := r.queries.GetBalanceAlert(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredAlert{}, ErrNotFound
	}
	if err != nil {
		return StoredAlert{}, fmt.Errorf("get balance alert: %w", err)
	}
	return fromRow(row), nil
}

// AlertsByStatus returns up to limit unclaimed alerts in the given export
// state, oldest first.
func (r *SQLiteRepository) AlertsByStatus(ctx context.Context, status string, limit int) ([]StoredAlert, error) {
	staleBefore := r.now().Add(-ExportClaimLease).UnixMilli()
	rows, err := r.queries.ListBalanceAlertsByStatus(ctx, status, staleBefore, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list %s balance alerts: %w", status, err)
	}

	alerts := make([]StoredAlert, len(rows))
	for i, row := range rows {
		alerts[i] = fromRow(row)
	}
	return alerts, nil
}

// ClaimBalanceAlert takes the export of alert id while it is still in status.
// Only one caller wins until the alert is marked or the claim goes stale.
func (r *SQLiteRepository) ClaimBalanceAlert(ctx context.Context, id int64, status string) (bool, error) {
	now := r.now()
	claimed, err := r.queries.ClaimBalanceAlert(ctx, ClaimBalanceAlertParams{
		ID:          id,
		Status:      status,
		ClaimedAt:   now.UnixMilli(),
		StaleBefore: now.Add(-ExportClaimLease).UnixMilli(),
	})
	if err != nil {
		return false, fmt.Errorf("claim balance alert: %w", err)
	}
	return claimed, nil
}

// MarkExported marks an alert as written to the external sink
func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if err := r.queries.SetBalanceAlertStatus(ctx, id, ExportDone); err != nil {
		return fmt.Errorf("mark alert exported: %w", err)
	}

	slog.InfoContext(ctx, "Balance alert marked as exported", "id", id)
	return nil
}

// MarkExportError marks an alert whose export failed
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	if err := r.queries.SetBalanceAlertStatus(ctx, id, ExportFailed); err != nil {
		return fmt.Errorf("mark alert export error: %w", err)
	}

	slog.WarnContext(ctx, "Balance alert marked with export error", "id", id)
	return nil
}

func fromRow(row BalanceAlert) StoredAlert {
	return StoredAlert{
		ID: row.ID,
		Alert: core.BalanceAlert{
			UserID:     row.UserID,
			UserName:   row.UserName,
			Email:      row.Email,
			NetBalance: float64(row.NetBalanceCents) / 100,
			MinBalance: float64(row.MinBalanceCents) / 100,
			ObservedAt: time.UnixMilli(row.ObservedAt).UTC(),
		},
		ExportStatus: row.ExportStatus,
	}
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}
