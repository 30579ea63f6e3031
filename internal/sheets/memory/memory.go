package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"finsafe/internal/core"
	ports "finsafe/internal/sheets"
)

// Store keeps appended alerts in process. The alert worker falls back to it
// when no spreadsheet is configured.
type Store struct {
	mu     sync.Mutex
	alerts []core.BalanceAlert
}

var _ ports.AlertSink = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendAlert stores a and returns a synthetic row reference.
func (s *Store) AppendAlert(_ context.Context, a core.BalanceAlert) (string, error) {
	if a.UserID == "" {
		return "", errors.New("alert without user id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
	return fmt.Sprintf("mem:%d", len(s.alerts)), nil
}

// Alerts returns a copy of everything appended so far.
func (s *Store) Alerts() []core.BalanceAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.BalanceAlert, len(s.alerts))
	copy(out, s.alerts)
	return out
}
