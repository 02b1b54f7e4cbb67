package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/idilsaglam/todolists/internal/model"
)

// Login authenticates name/password. On success the backend sets a session
// cookie which the client's jar keeps.
func (c *Client) Login(ctx context.Context, name, password string) (*model.User, error) {
	creds := model.Credentials{Name: strings.TrimSpace(name), Password: password}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/api/user/login", creds, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	creds := model.Credentials{Name: strings.TrimSpace(name), Password: password}
	if email = strings.TrimSpace(email); email != "" {
		creds.Email = &email
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/api/users", creds, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/user/logout", nil, nil)
}

// ClearToken stops sending the bearer API key. Cookies are left to the jar,
// which drops the session cookie when logout expires it.
func (c *Client) ClearToken() { c.Token = "" }

// Me returns the user owning the current session or token.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/api/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// APIKey returns the current user's API key, usable as a bearer token.
func (c *Client) APIKey(ctx context.Context) (string, error) {
	var key string
	if err := c.do(ctx, http.MethodGet, "/api/user/key", nil, &key); err != nil {
		return "", err
	}
	return key, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, upd model.UserUpdate) (*model.User, error) {
	if id <= 0 {
		return nil, model.Err(model.EINVALID, "invalid user id")
	} else if err := upd.Validate(); err != nil {
		return nil, err
	}
	var user model.User
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/users/%d", id), upd, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Build reports the backend's version details.
func (c *Client) Build(ctx context.Context) (*model.Build, error) {
	var b model.Build
	if err := c.do(ctx, http.MethodGet, "/api/build", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
