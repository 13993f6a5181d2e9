package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

// OAuth wraps the GitHub OAuth2 code-exchange flow. The "repo" scope is
// required so the exchanged token can manage the blog repository.
type OAuth struct {
	cfg *oauth2.Config
}

// NewOAuth creates the GitHub OAuth2 configuration.
func NewOAuth(clientID, clientSecret, redirectURL string) *OAuth {
	return &OAuth{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"repo"},
		Endpoint:     oauthgithub.Endpoint,
	}}
}

// LoginURL returns the provider authorization URL for the given state.
func (o *OAuth) LoginURL(state string) string {
	return o.cfg.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token.
func (o *OAuth) Exchange(ctx context.Context, code string) (string, error) {
	token, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("auth: code exchange: %w", err)
	}
	return token.AccessToken, nil
}

// NewState returns a random hex state token for the login redirect.
func NewState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
