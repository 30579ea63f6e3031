package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"finsafe/internal/log"
	"finsafe/internal/state"
)

type ManagerConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager binds sessions to browsers through a cookie holding the session ID.
type Manager struct {
	store  Store
	cfg    ManagerConfig
	logger *log.Logger
	now    func() time.Time
}

func NewManager(store Store, cfg ManagerConfig, logger *log.Logger) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "finsafe_session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Manager{
		store:  store,
		cfg:    cfg,
		logger: logger.WithComponent(log.ComponentSession),
		now:    time.Now,
	}
}

// Store returns the backing store.
func (m *Manager) Store() Store {
	return m.store
}

// Get returns the browser's session, or a fresh unsaved one when the cookie
// is missing, unknown or expired. Store failures are logged and also yield
// a fresh session, so a broken store degrades to signed-out pages.
func (m *Manager) Get(r *http.Request) *Session {
	ctx := r.Context()
	now := m.now()

	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || uuid.Validate(cookie.Value) != nil {
		return New(now, m.cfg.TTL)
	}

	s, err := m.store.Load(ctx, cookie.Value)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.WarnContext(ctx, "Failed to load session",
				log.FieldBackend, m.store.Name(),
				log.FieldError, err.Error())
		}
		return New(now, m.cfg.TTL)
	}

	// The API rejects expired tokens; drop the user before it does.
	if u := s.User(); u != nil {
		if exp, ok := TokenExpiry(u.Token); ok && !now.Before(exp) {
			m.logger.InfoContext(ctx, "User token expired, signing out", log.FieldSessionID, s.ID)
			s.DispatchAuth(state.LoggedOut())
		}
	}
	return s
}

// Save persists s and refreshes the cookie. While a user is signed in the
// session never outlives the user's token.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	now := m.now()
	s.ExpiresAt = now.Add(m.cfg.TTL)
	if u := s.User(); u != nil {
		if exp, ok := TokenExpiry(u.Token); ok && exp.Before(s.ExpiresAt) {
			s.ExpiresAt = exp
		}
	}

	if err := m.store.Save(ctx, s); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   max(int(s.ExpiresAt.Sub(now).Seconds()), 1),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy deletes s from the store and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	if s.IsNew() {
		return nil
	}
	return m.store.Delete(ctx, s.ID)
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature;
// the FinSafe API owns the signing key.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
