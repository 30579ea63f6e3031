// Package services orchestrates FinSafe API calls and the session state
// they update.
package services

import (
	"context"

	"finsafe/internal/api"
	"finsafe/internal/core"
)

//go:generate mockgen -source=ports.go -destination=../mock/services_mock.go -package=mock

// AuthAPI is the account part of the FinSafe API.
type AuthAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (core.User, error)
	Login(ctx context.Context, creds api.Credentials) (core.User, error)
	UpdateSettings(ctx context.Context, token string, minBalance float64) (core.User, error)
	ConfirmNameChange(ctx context.Context, confirmToken string) (api.NameChange, error)
}

// TransactionAPI is the transaction and analytics part of the FinSafe API.
type TransactionAPI interface {
	ListTransactions(ctx context.Context, token string, q api.ListQuery) (core.TransactionPage, error)
	AddTransaction(ctx context.Context, token string, tx core.NewTransaction) (core.Transaction, error)
	Analytics(ctx context.Context, token string, year, month int) (core.Analytics, error)
	MonthlyReport(ctx context.Context, token string, m core.Month) ([]core.Transaction, error)
}

type NotesAPI interface {
	ListNotes(ctx context.Context, token string) ([]core.Note, error)
	CreateNote(ctx context.Context, token string, n core.Note) (core.Note, error)
	UpdateNote(ctx context.Context, token, id string, n core.Note) (core.Note, error)
	DeleteNote(ctx context.Context, token, id string) error
}

// AlertPublisher hands low-balance alerts to the background pipeline.
type AlertPublisher interface {
	PublishBalanceAlert(ctx context.Context, alert core.BalanceAlert) error
}

var (
	_ AuthAPI        = (*api.Client)(nil)
	_ TransactionAPI = (*api.Client)(nil)
	_ NotesAPI       = (*api.Client)(nil)
)
