// Package session keeps each browser's client state on the server.
//
// A Session carries what a single-page client would hold in memory and
// local storage: the signed-in user, the last fetched transactions and the
// dashboard controls. Stores persist it as JSON.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"finsafe/internal/core"
	"finsafe/internal/state"
)

// ErrNotFound is returned by stores for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

type Session struct {
	ID           string                 `json:"id"`
	Auth         state.AuthState        `json:"auth"`
	Transactions state.TransactionState `json:"transactions"`

	// Dashboard controls
	FilterDate   string `json:"filterDate,omitempty"`
	AnalysisYear int    `json:"analysisYear"`
	ExportMonth  string `json:"exportMonth"`

	// Notes is the list shown in the notes modal, newest first.
	Notes []core.Note `json:"notes,omitempty"`

	// Flash is shown once on the next rendered page.
	Flash string `json:"flash,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	isNew bool
}

// Store persists sessions by ID.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Name() string
}

// New returns an unsaved session with default dashboard controls for now.
func New(now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:           uuid.NewString(),
		Transactions: state.InitialTransactions(),
		AnalysisYear: now.Year(),
		ExportMonth:  core.CurrentMonth(now).Value(),
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		isNew:        true,
	}
}

// IsNew reports whether the session has never been saved.
func (s *Session) IsNew() bool {
	return s.isNew
}

// User returns the signed-in user, or nil.
func (s *Session) User() *core.User {
	return s.Auth.User
}

func (s *Session) LoggedIn() bool {
	return s.Auth.LoggedIn()
}

func (s *Session) DispatchAuth(a state.AuthAction) {
	s.Auth = state.ReduceAuth(s.Auth, a)
}

func (s *Session) DispatchTx(a state.TxAction) {
	s.Transactions = state.ReduceTransactions(s.Transactions, a)
}

// SetFlash queues a one-time message.
func (s *Session) SetFlash(msg string) {
	s.Flash = msg
}

// PopFlash returns and clears the queued message.
func (s *Session) PopFlash() string {
	msg := s.Flash
	s.Flash = ""
	return msg
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Month returns the export month, falling back to the current month when
// the stored value is unusable.
func (s *Session) Month(now time.Time) core.Month {
	if m, err := core.ParseMonth(s.ExportMonth); err == nil {
		return m
	}
	return core.CurrentMonth(now)
}
