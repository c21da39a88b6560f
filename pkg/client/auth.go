package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskdeck/pkg/domain"
)

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload for the registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login authenticates with email and password. On success the session is
// updated with the returned tokens; on failure the session is left untouched
// and the API's error message is surfaced.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	req := LoginRequest{Email: email, Password: password}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}

	var auth domain.AuthResponse
	if err := c.post(ctx, "/api/auth/login", req, &auth); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if auth.Token == "" {
		return nil, fmt.Errorf("client.Login: response missing token")
	}
	if err := c.sess.SetTokens(auth.Token, auth.RefreshToken); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	zap.L().Info("logged in", zap.String("email", email))
	return &auth, nil
}

// Register creates a new account and logs it in. On any failure the session
// and its storage are left fully cleared, never in a partial state.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.AuthResponse, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}

	// Registration always starts from a clean slate.
	if err := c.sess.Clear(); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}

	var auth domain.AuthResponse
	if err := c.post(ctx, "/api/auth/register", req, &auth); err != nil {
		c.sess.Clear() //nolint:errcheck // best-effort: session must not be left partial
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	if auth.Token == "" {
		return nil, fmt.Errorf("client.Register: response missing token")
	}
	if err := c.sess.SetTokens(auth.Token, auth.RefreshToken); err != nil {
		c.sess.Clear() //nolint:errcheck
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	zap.L().Info("registered", zap.String("email", req.Email))
	return &auth, nil
}

// Logout clears the session locally. No network call is involved; it cannot
// fail against the API and calling it twice is the same as calling it once.
func (c *Client) Logout() error {
	if err := c.sess.Clear(); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// Me returns the authenticated user's profile from the API. This is the
// authoritative profile; the session's own user is decoded from token claims
// and may carry less detail.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/api/auth/me", &u); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &u, nil
}

// Users lists all registered users, for member and assignee pickers.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/api/auth/users", &users); err != nil {
		return nil, fmt.Errorf("client.Users: %w", err)
	}
	return users, nil
}

// Dashboard returns the authenticated user's dashboard summary.
func (c *Client) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var resp struct {
		Data domain.DashboardStats `json:"data"`
	}
	if err := c.get(ctx, "/api/auth/dashboard", &resp); err != nil {
		return nil, fmt.Errorf("client.Dashboard: %w", err)
	}
	return &resp.Data, nil
}
