package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/virel/pagesmith/internal/apperr"
)

const defaultAPIBaseURL = "https://api.github.com"

// IdentityClient resolves GitHub identities from access tokens.
type IdentityClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewIdentityClient creates a client against the GitHub API. baseURL may be
// empty for the public endpoint.
func NewIdentityClient(baseURL string) *IdentityClient {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &IdentityClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchIdentity resolves the user behind an access token via GET /user.
func (c *IdentityClient) FetchIdentity(ctx context.Context, token string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", http.NoBody)
	if err != nil {
		return Identity{}, fmt.Errorf("auth: build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: fetch user: %v", apperr.ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return Identity{}, fmt.Errorf("%w: GitHub rejected the token", apperr.ErrUnauthorized)
		}
		return Identity{}, fmt.Errorf("%w: GitHub API %d: %s", apperr.ErrRemoteUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var user struct {
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return Identity{}, fmt.Errorf("auth: decode user response: %w", err)
	}
	return Identity{Login: user.Login, Name: user.Name, AvatarURL: user.AvatarURL}, nil
}
