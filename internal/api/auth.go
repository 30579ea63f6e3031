package api

import (
	"context"
	"net/http"

	"finsafe/internal/core"
)

type RegisterRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	MinBalance float64 `json:"minBalance"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NameChange is the API's answer to a confirmed username change.
type NameChange struct {
	User    core.User `json:"user"`
	Message string    `json:"message"`
}

// Register creates an account and returns the user together with its token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (core.User, error) {
	var user core.User
	r := c.request(ctx, "").SetBody(req)
	if err := c.do("register", http.MethodPost, "auth/register", r, &user); err != nil {
		return core.User{}, err
	}
	return user, nil
}

func (c *Client) Login(ctx context.Context, creds Credentials) (core.User, error) {
	var user core.User
	r := c.request(ctx, "").SetBody(creds)
	if err := c.do("login", http.MethodPost, "auth/login", r, &user); err != nil {
		return core.User{}, err
	}
	return user, nil
}

// UpdateSettings stores the user's low-balance threshold.
func (c *Client) UpdateSettings(ctx context.Context, token string, minBalance float64) (core.User, error) {
	var user core.User
	r := c.request(ctx, token).SetBody(map[string]float64{"minBalance": minBalance})
	if err := c.do("update_settings", http.MethodPut, "auth/settings", r, &user); err != nil {
		return core.User{}, err
	}
	return user, nil
}

// ConfirmNameChange redeems the token mailed to the user. It needs no
// session: the confirmation token identifies the account.
func (c *Client) ConfirmNameChange(ctx context.Context, confirmToken string) (NameChange, error) {
	var out NameChange
	r := c.request(ctx, "").SetBody(map[string]string{"token": confirmToken})
	if err := c.do("confirm_name", http.MethodPost, "auth/settings/confirm-name", r, &out); err != nil {
		return NameChange{}, err
	}
	return out, nil
}
