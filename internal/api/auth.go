// internal/api/auth.go
package api

import (
	"context"
	"net/http"
	"strings"

	"storefront-agent/internal/domain/auth"
)

// Register creates an account and returns the bearer token the backend issues.
func (c *Client) Register(ctx context.Context, creds auth.Credentials) (string, error) {
	return c.tokenCall(ctx, "/auth/register", creds)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds auth.Credentials) (string, error) {
	return c.tokenCall(ctx, "/auth/login", creds)
}

func (c *Client) tokenCall(ctx context.Context, path string, creds auth.Credentials) (string, error) {
	var body string
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: creds}, &body); err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(body), `"`), nil
}

// Profile fetches the logged-in user's account.
func (c *Client) Profile(ctx context.Context) (*auth.Profile, error) {
	var profile auth.Profile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/me", auth: true}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
