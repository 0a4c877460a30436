package httpapi

import (
	"context"
	"net/http"

	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
)

// authClient implements ports.AuthAPI over the shared Client.
type authClient struct {
	client *Client
}

var _ ports.AuthAPI = (*authClient)(nil) // Ensure compliance

// NewAuthAPI creates the authentication surface.
func NewAuthAPI(client *Client) ports.AuthAPI {
	return &authClient{client: client}
}

func (a *authClient) Login(ctx context.Context, credentials domain.LoginCredentials) (*domain.AuthTokens, error) {
	var tokens domain.AuthTokens
	if err := a.client.doJSON(ctx, http.MethodPost, "/auth/login", credentials, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (a *authClient) Logout(ctx context.Context) error {
	return a.client.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (a *authClient) Profile(ctx context.Context) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := a.client.doJSON(ctx, http.MethodGet, "/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
