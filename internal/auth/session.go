package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/virel/pagesmith/internal/apperr"
)

// SessionManager issues and verifies signed session tokens. The browser
// holds only this token for the session; the GitHub access token itself is
// never persisted client-side.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager creates a manager signing HS256 tokens with secret,
// valid for ttl.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	jwt.RegisteredClaims
}

// Issue creates a session token for the identity.
func (s *SessionManager) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Login:     id.Login,
		Name:      id.Name,
		AvatarURL: id.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign session: %w", err)
	}
	return signed, nil
}

// Verify validates a session token and returns the identity it carries.
func (s *SessionManager) Verify(raw string) (Identity, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: invalid session token", apperr.ErrUnauthorized)
	}
	return Identity{Login: claims.Login, Name: claims.Name, AvatarURL: claims.AvatarURL}, nil
}
