// Package state holds the client-side view of the signed-in user and their
// transactions, advanced only through pure reducers.
//
// A reducer never mutates its input: it returns a new state and copies any
// slice or pointer it keeps from the action.
package state

import "finsafe/internal/core"

type AuthActionType string

const (
	AuthStart     AuthActionType = "AUTH_START"
	AuthSuccess   AuthActionType = "AUTH_SUCCESS"
	UpdateSuccess AuthActionType = "UPDATE_SUCCESS"
	AuthFail      AuthActionType = "AUTH_FAIL"
	Logout        AuthActionType = "LOGOUT"
	UserUpdate    AuthActionType = "USER_UPDATE"
	// SettingsFail reports a failed settings save without signing the user out.
	SettingsFail AuthActionType = "SETTINGS_FAIL"
)

type AuthState struct {
	User      *core.User `json:"user,omitempty"`
	IsLoading bool       `json:"isLoading"`
	Error     string     `json:"error,omitempty"`
}

// UserPatch lists the user fields a USER_UPDATE overwrites. Nil fields are
// left alone, so a threshold can be set back to zero.
type UserPatch struct {
	Name       *string
	Email      *string
	MinBalance *float64
	Token      *string
}

type AuthAction struct {
	Type  AuthActionType
	User  core.User
	Patch UserPatch
	Error string
}

func StartAuth() AuthAction { return AuthAction{Type: AuthStart} }
func AuthSucceeded(u core.User) AuthAction { return AuthAction{Type: AuthSuccess, User: u} }
func UserReplaced(u core.User) AuthAction { return AuthAction{Type: UpdateSuccess, User: u} }
func AuthFailed(msg string) AuthAction { return AuthAction{Type: AuthFail, Error: msg} }
func LoggedOut() AuthAction { return AuthAction{Type: Logout} }
func UserPatched(p UserPatch) AuthAction { return AuthAction{Type: UserUpdate, Patch: p} }
func SettingsFailed(msg string) AuthAction { return AuthAction{Type: SettingsFail, Error: msg} }

// LoggedIn reports whether a user is present.
func (s AuthState) LoggedIn() bool {
	return s.User != nil
}

// ReduceAuth applies a to s. Unknown action types return s unchanged.
func ReduceAuth(s AuthState, a AuthAction) AuthState {
	next := s
	if s.User != nil {
		u := *s.User
		next.User = &u
	}

	switch a.Type {
	case AuthStart:
		next.IsLoading = true
		next.Error = ""
	case AuthSuccess, UpdateSuccess:
		u := a.User
		next.User = &u
		next.IsLoading = false
		next.Error = ""
	case AuthFail:
		next.User = nil
		next.IsLoading = false
		next.Error = a.Error
	case Logout:
		next.User = nil
		next.IsLoading = false
		next.Error = ""
	case UserUpdate:
		if next.User == nil {
			next.User = &core.User{}
		}
		a.Patch.apply(next.User)
		next.IsLoading = false
	case SettingsFail:
		next.IsLoading = false
		next.Error = a.Error
	default:
		return s
	}
	return next
}

func (p UserPatch) apply(u *core.User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.MinBalance != nil {
		u.MinBalance = *p.MinBalance
	}
	if p.Token != nil {
		u.Token = *p.Token
	}
}
