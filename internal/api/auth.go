package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a token and user. It does not arm the
// client; the session store does that.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", Credentials{Email: email, Password: password}, &resp)
	return resp, err
}

// Register creates an account and returns the backend's message.
func (c *Client) Register(ctx context.Context, name, email, password string) (MessageResponse, error) {
	var resp MessageResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register",
		Registration{Name: name, Email: email, Password: password}, &resp)
	return resp, err
}
