package services

import (
	"context"
	"errors"
	"strings"

	"finsafe/internal/api"
	"finsafe/internal/core"
	"finsafe/internal/log"
	"finsafe/internal/session"
	"finsafe/internal/state"
)

const (
	MsgSettingsSaved   = "Settings saved successfully!"
	MsgNoConfirmToken  = "Error: No confirmation token found. Please try again."
	msgUnknownError    = "An unknown error occurred."
	msgSettingsFailed  = "Failed to update settings"
	msgNegativeMinimum = "Minimum balance cannot be negative."
)

// ErrSignedOut is returned by operations that need a signed-in user.
var ErrSignedOut = errors.New("not signed in")

// AuthService signs users in and out and keeps the session's AuthState in
// step with the API.
type AuthService struct {
	api    AuthAPI
	logger *log.Logger
}

func NewAuthService(authAPI AuthAPI, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.Discard()
	}
	return &AuthService{api: authAPI, logger: logger.WithComponent(log.ComponentAuth)}
}

// Register creates an account and signs the new user in. The outcome is
// recorded on sess; the returned error is only for logging.
func (s *AuthService) Register(ctx context.Context, sess *session.Session, req api.RegisterRequest) error {
	sess.DispatchAuth(state.StartAuth())
	if err := core.ValidateMinBalance(req.MinBalance); err != nil {
		sess.DispatchAuth(state.AuthFailed(msgNegativeMinimum))
		return err
	}

	user, err := s.api.Register(ctx, req)
	if err != nil {
		sess.DispatchAuth(state.AuthFailed(api.Describe(err)))
		s.logger.WarnContext(ctx, "Registration failed", log.FieldOperation, log.OpRegister, log.FieldError, err)
		return err
	}
	sess.DispatchAuth(state.AuthSucceeded(user))
	s.logger.InfoContext(ctx, "User registered", log.FieldOperation, log.OpRegister, log.FieldUserID, user.ID)
	return nil
}

func (s *AuthService) Login(ctx context.Context, sess *session.Session, creds api.Credentials) error {
	sess.DispatchAuth(state.StartAuth())

	user, err := s.api.Login(ctx, creds)
	if err != nil {
		sess.DispatchAuth(state.AuthFailed(api.Describe(err)))
		s.logger.WarnContext(ctx, "Login failed", log.FieldOperation, log.OpLogin, log.FieldError, err)
		return err
	}
	sess.DispatchAuth(state.AuthSucceeded(user))
	s.logger.InfoContext(ctx, "User logged in", log.FieldOperation, log.OpLogin, log.FieldUserID, user.ID)
	return nil
}

// Logout clears the signed-in user. The caller destroys the session.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) {
	if u := sess.User(); u != nil {
		s.logger.InfoContext(ctx, "User logged out", log.FieldUserID, u.ID)
	}
	sess.DispatchAuth(state.LoggedOut())
	sess.Transactions = state.InitialTransactions()
	sess.Notes = nil
}

// UpdateMinBalance saves the low-balance alert threshold. On success the
// session user is patched and a flash is queued; on failure the user stays
// signed in and the error is recorded.
func (s *AuthService) UpdateMinBalance(ctx context.Context, sess *session.Session, minBalance float64) error {
	user := sess.User()
	if user == nil {
		return ErrSignedOut
	}
	if err := core.ValidateMinBalance(minBalance); err != nil {
		sess.DispatchAuth(state.SettingsFailed(msgNegativeMinimum))
		return err
	}

	sess.DispatchAuth(state.StartAuth())
	if _, err := s.api.UpdateSettings(ctx, user.Token, minBalance); err != nil {
		sess.DispatchAuth(state.SettingsFailed(api.MessageOf(err, msgSettingsFailed)))
		s.logger.WarnContext(ctx, "Settings update failed", log.FieldUserID, user.ID, log.FieldError, err)
		return err
	}

	sess.DispatchAuth(state.UserPatched(state.UserPatch{MinBalance: &minBalance}))
	sess.SetFlash(MsgSettingsSaved)
	return nil
}

// ConfirmNameChange redeems an emailed confirmation token and returns the
// status line to show.
func (s *AuthService) ConfirmNameChange(ctx context.Context, sess *session.Session, token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return MsgNoConfirmToken
	}

	res, err := s.api.ConfirmNameChange(ctx, token)
	if err != nil {
		s.logger.WarnContext(ctx, "Name change confirmation failed", log.FieldError, err)
		return "Error: " + api.MessageOf(err, msgUnknownError)
	}

	user := res.User
	if current := sess.User(); current != nil && user.Token == "" {
		user.Token = current.Token
	}
	// Without a token the browser stays signed out.
	if user.Token != "" {
		sess.DispatchAuth(state.UserReplaced(user))
	}
	return res.Message
}
