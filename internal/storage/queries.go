package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Session struct {
	ID        string
	Data      []byte
	ExpiresAt int64
	UpdatedAt int64
}

type BalanceAlert struct {
	ID              int64
	UserID          string
	UserName        string
	Email           string
	NetBalanceCents int64
	MinBalanceCents int64
	ObservedAt      int64
	ObservedDay     string
	ExportStatus    string
	CreatedAt       int64
}

const upsertSession = `
INSERT INTO sessions (id, data, expires_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    data = excluded.data,
    expires_at = excluded.expires_at,
    updated_at = excluded.updated_at
`

type UpsertSessionParams struct {
	ID        string
	Data      []byte
	ExpiresAt int64
	UpdatedAt int64
}

func (q *Queries) UpsertSession(ctx context.Context, arg UpsertSessionParams) error {
	_, err := q.db.ExecContext(ctx, upsertSession, arg.ID, arg.Data, arg.ExpiresAt, arg.UpdatedAt)
	return err
}

const getLiveSession = `
SELECT id, data, expires_at, updated_at FROM sessions
WHERE id = ? AND expires_at > ?
`

func (q *Queries) GetLiveSession(ctx context.Context, id string, now int64) (Session, error) {
	row := q.db.QueryRowContext(ctx, getLiveSession, id, now)
	var s Session
	err := row.Scan(&s.ID, &s.Data, &s.ExpiresAt, &s.UpdatedAt)
	return s, err
}

const deleteSession = `DELETE FROM sessions WHERE id = ?`

func (q *Queries) DeleteSession(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteSession, id)
	return err
}

const deleteExpiredSessions = `DELETE FROM sessions WHERE expires_at <= ?`

func (q *Queries) DeleteExpiredSessions(ctx context.Context, now int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpiredSessions, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const insertBalanceAlert = `
INSERT INTO balance_alerts (
    user_id, user_name, email, net_balance_cents, min_balance_cents,
    observed_at, observed_day, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, observed_day) DO NOTHING
RETURNING id
`

type InsertBalanceAlertParams struct {
	UserID          string
	UserName        string
	Email           string
	NetBalanceCents int64
	MinBalanceCents int64
	ObservedAt      int64
	ObservedDay     string
	CreatedAt       int64
}

// InsertBalanceAlert returns sql.ErrNoRows when the user already has an
// alert for that day.
func (q *Queries) InsertBalanceAlert(ctx context.Context, arg InsertBalanceAlertParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertBalanceAlert,
		arg.UserID,
		arg.UserName,
		arg.Email,
		arg.NetBalanceCents,
		arg.MinBalanceCents,
		arg.ObservedAt,
		arg.ObservedDay,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const balanceAlertColumns = `id, user_id, user_name, email, net_balance_cents, min_balance_cents,
    observed_at, observed_day, export_status, created_at`

const getBalanceAlert = `SELECT ` + balanceAlertColumns + ` FROM balance_alerts WHERE id = ?`

func (q *Queries) GetBalanceAlert(ctx context.Context, id int64) (BalanceAlert, error) {
	return scanBalanceAlert(q.db.QueryRowContext(ctx, getBalanceAlert, id))
}

const listBalanceAlertsByStatus = `
SELECT ` + balanceAlertColumns + ` FROM balance_alerts
WHERE export_status = ? AND claimed_at <= ?
ORDER BY observed_at ASC
LIMIT ?
`

// ListBalanceAlertsByStatus skips rows claimed after staleBefore.
func (q *Queries) ListBalanceAlertsByStatus(ctx context.Context, status string, staleBefore, limit int64) ([]BalanceAlert, error) {
	rows, err := q.db.QueryContext(ctx, listBalanceAlertsByStatus, status, staleBefore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BalanceAlert
	for rows.Next() {
		a, err := scanBalanceAlert(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const claimBalanceAlert = `
UPDATE balance_alerts SET claimed_at = ?
WHERE id = ? AND export_status = ? AND claimed_at <= ?
`

type ClaimBalanceAlertParams struct {
	ID          int64
	Status      string
	ClaimedAt   int64
	StaleBefore int64
}

// ClaimBalanceAlert reports whether the row was claimed. It fails to claim
// rows in another status or holding a claim newer than StaleBefore.
func (q *Queries) ClaimBalanceAlert(ctx context.Context, arg ClaimBalanceAlertParams) (bool, error) {
	res, err := q.db.ExecContext(ctx, claimBalanceAlert, arg.ClaimedAt, arg.ID, arg.Status, arg.StaleBefore)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

const setBalanceAlertStatus = `UPDATE balance_alerts SET export_status = ?, claimed_at = 0 WHERE id = ?`

func (q *Queries) SetBalanceAlertStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.ExecContext(ctx, setBalanceAlertStatus, status, id)
	return err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBalanceAlert(s scanner) (BalanceAlert, error) {
	var a BalanceAlert
	err := s.Scan(
		&a.ID,
		&a.UserID,
		&a.UserName,
		&a.Email,
		&a.NetBalanceCents,
		&a.MinBalanceCents,
		&a.ObservedAt,
		&a.ObservedDay,
		&a.ExportStatus,
		&a.CreatedAt,
	)
	return a, err
}
