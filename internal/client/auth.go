// ABOUTME: Authentication endpoints of the backend
// ABOUTME: Password login, Google ID token exchange, and registration

package client

import (
	"context"
	"fmt"
	"net/http"
)

// Login calls POST /users/login
func (c *Client) Login(ctx context.Context, in LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.Do(ctx, http.MethodPost, "/users/login", in, nil, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("invalid response from backend: missing token")
	}
	return &out, nil
}

// GoogleLogin calls POST /users/google-login
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.Do(ctx, http.MethodPost, "/users/google-login", GoogleLoginRequest{IDToken: idToken}, nil, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("invalid response from backend: missing token")
	}
	return &out, nil
}

// Register calls POST /auth/users/register
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*UserProfile, error) {
	var out envelope[*UserProfile]
	if err := c.Do(ctx, http.MethodPost, "/auth/users/register", in, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
