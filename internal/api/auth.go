package api

import (
	"context"
	"net/http"
	"net/url"

	"taskdash/internal/model"
)

// RegisterRequest is the /auth/register payload. The confirm-password
// field never leaves the form layer.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a token. The endpoint takes a
// form-encoded body.
func (c *Client) Login(ctx context.Context, username, password string) (*model.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	var t model.Token
	if err := c.doForm(ctx, http.MethodPost, "/auth/login", form, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
