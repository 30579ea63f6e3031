package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finsafe/internal/storage"
)

// SQLiteStore keeps sessions in the sessions table of the shared database.
type SQLiteStore struct {
	repo *storage.SQLiteRepository
	now  func() time.Time
}

func NewSQLiteStore(repo *storage.SQLiteRepository) *SQLiteStore {
	return &SQLiteStore{repo: repo, now: time.Now}
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Session, error) {
	now := s.now()
	data, err := s.repo.LoadSession(ctx, id, now)
	if errors.Is(err, storage.ErrNotFound) {
		observe(s.Name(), "load", ErrNotFound)
		return nil, ErrNotFound
	}
	if err != nil {
		observe(s.Name(), "load", err)
		return nil, err
	}
	sess, err := decode(data, now)
	observe(s.Name(), "load", err)
	return sess, err
}

func (s *SQLiteStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		observe(s.Name(), "save", err)
		return fmt.Errorf("encode session: %w", err)
	}
	err = s.repo.SaveSession(ctx, sess.ID, data, sess.ExpiresAt)
	observe(s.Name(), "save", err)
	if err != nil {
		return err
	}
	sess.isNew = false
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	err := s.repo.DeleteSession(ctx, id)
	observe(s.Name(), "delete", err)
	return err
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Purge removes expired rows; the table is not otherwise trimmed.
func (s *SQLiteStore) Purge(ctx context.Context) (int64, error) {
	return s.repo.PurgeExpiredSessions(ctx, s.now())
}
