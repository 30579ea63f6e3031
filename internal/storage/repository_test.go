package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finsafe/internal/core"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "finsafe.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finsafe.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	repo.Close()

	if err := RunMigrations(path); err != nil {
		t.Fatalf("second migration run: %v", err)
	}
}

func TestSessions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	if err := repo.SaveSession(ctx, "s1", []byte(`{"a":1}`), now.Add(time.Hour)); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := repo.SaveSession(ctx, "s1", []byte(`{"a":2}`), now.Add(time.Hour)); err != nil {
		t.Fatalf("SaveSession overwrite: %v", err)
	}

	data, err := repo.LoadSession(ctx, "s1", now)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if string(data) != `{"a":2}` {
		t.Fatalf("LoadSession = %s", data)
	}

	if _, err := repo.LoadSession(ctx, "s1", now.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired session: got %v, want ErrNotFound", err)
	}
	if _, err := repo.LoadSession(ctx, "missing", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing session: got %v, want ErrNotFound", err)
	}

	if err := repo.SaveSession(ctx, "old", []byte(`{}`), now.Add(-time.Minute)); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	n, err := repo.PurgeExpiredSessions(ctx, now)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpiredSessions = %d, %v; want 1", n, err)
	}

	if err := repo.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := repo.LoadSession(ctx, "s1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted session still loads: %v", err)
	}
}

func TestBalanceAlerts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	observed := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

	alert := core.BalanceAlert{
		UserID:     "u1",
		UserName:   "Asha",
		Email:      "asha@example.com",
		NetBalance: -120.55,
		MinBalance: 500,
		ObservedAt: observed,
	}

	id, created, err := repo.SaveBalanceAlert(ctx, alert)
	if err != nil || !created || id == 0 {
		t.Fatalf("SaveBalanceAlert = %d, %v, %v", id, created, err)
	}

	again := alert
	again.ObservedAt = observed.Add(3 * time.Hour)
	if _, created, err := repo.SaveBalanceAlert(ctx, again); err != nil || created {
		t.Fatalf("same-day alert: created=%v err=%v, want duplicate", created, err)
	}

	tomorrow := alert
	tomorrow.ObservedAt = observed.Add(24 * time.Hour)
	if _, created, err := repo.SaveBalanceAlert(ctx, tomorrow); err != nil || !created {
		t.Fatalf("next-day alert: created=%v err=%v", created, err)
	}

	stored, err := repo.GetBalanceAlert(ctx, id)
	if err != nil {
		t.Fatalf("GetBalanceAlert: %v", err)
	}
	got := stored.Alert
	if !got.ObservedAt.Equal(alert.ObservedAt) {
		t.Fatalf("ObservedAt = %v, want %v", got.ObservedAt, alert.ObservedAt)
	}
	got.ObservedAt = alert.ObservedAt
	if got != alert {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, alert)
	}
	if stored.ExportStatus != ExportPending {
		t.Fatalf("status = %q, want pending", stored.ExportStatus)
	}

	pending, err := repo.AlertsByStatus(ctx, ExportPending, 10)
	if err != nil || len(pending) != 2 {
		t.Fatalf("pending = %d, %v; want 2", len(pending), err)
	}
	if pending[0].ID != id {
		t.Fatalf("pending alerts must be oldest first")
	}

	if err := repo.MarkExported(ctx, id); err != nil {
		t.Fatalf("MarkExported: %v", err)
	}
	if err := repo.MarkExportError(ctx, pending[1].ID); err != nil {
		t.Fatalf("MarkExportError: %v", err)
	}
	failed, _ := repo.AlertsByStatus(ctx, ExportFailed, 10)
	if len(failed) != 1 || failed[0].ID != pending[1].ID {
		t.Fatalf("failed alerts = %+v", failed)
	}

	if _, err := repo.GetBalanceAlert(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing alert: got %v", err)
	}
}

func TestClaimBalanceAlert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	id, _, err := repo.SaveBalanceAlert(ctx, core.BalanceAlert{UserID: "u1", ObservedAt: now})
	if err != nil {
		t.Fatalf("SaveBalanceAlert: %v", err)
	}

	if ok, err := repo.ClaimBalanceAlert(ctx, id, ExportFailed); err != nil || ok {
		t.Fatalf("claim in wrong status = %v, %v; want false", ok, err)
	}
	if ok, err := repo.ClaimBalanceAlert(ctx, id, ExportPending); err != nil || !ok {
		t.Fatalf("first claim = %v, %v; want true", ok, err)
	}
	if ok, err := repo.ClaimBalanceAlert(ctx, id, ExportPending); err != nil || ok {
		t.Fatalf("second claim = %v, %v; want false", ok, err)
	}
	if pending, _ := repo.AlertsByStatus(ctx, ExportPending, 10); len(pending) != 0 {
		t.Fatalf("claimed alert listed as pending: %+v", pending)
	}

	// An abandoned claim expires.
	now = now.Add(ExportClaimLease + time.Second)
	if pending, _ := repo.AlertsByStatus(ctx, ExportPending, 10); len(pending) != 1 {
		t.Fatalf("stale claim not listed: %+v", pending)
	}
	if ok, err := repo.ClaimBalanceAlert(ctx, id, ExportPending); err != nil || !ok {
		t.Fatalf("reclaim after lease = %v, %v; want true", ok, err)
	}

	if err := repo.MarkExportError(ctx, id); err != nil {
		t.Fatalf("MarkExportError: %v", err)
	}
	if failed, _ := repo.AlertsByStatus(ctx, ExportFailed, 10); len(failed) != 1 {
		t.Fatalf("marking must release the claim: %+v", failed)
	}
	if ok, err := repo.ClaimBalanceAlert(ctx, id, ExportFailed); err != nil || !ok {
		t.Fatalf("claim failed alert = %v, %v; want true", ok, err)
	}
}
