package api

import (
	"encoding/json"
	"net/http"

	"github.com/virel/pagesmith/internal/auth"
)

// AuthHandler implements the OAuth login flow routes.
type AuthHandler struct {
	oauth      *auth.OAuth
	identities *auth.IdentityClient
	sessions   *auth.SessionManager
	policy     auth.Policy
}

// NewAuthHandler creates the login flow handler.
func NewAuthHandler(oauth *auth.OAuth, identities *auth.IdentityClient, sessions *auth.SessionManager, policy auth.Policy) *AuthHandler {
	return &AuthHandler{oauth: oauth, identities: identities, sessions: sessions, policy: policy}
}

// LoginURL handles GET /api/auth/login-url. The state is returned to the
// client, which must send it back unchanged with the callback.
func (a *AuthHandler) LoginURL(w http.ResponseWriter, _ *http.Request) {
	state, err := auth.NewState()
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"url":   a.oauth.LoginURL(state),
		"state": state,
	})
}

// Callback handles POST /api/auth/callback: exchanges the authorization
// code, resolves the GitHub identity, enforces the owner policy and issues
// a session token.
func (a *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("authorization code is required"))
		return
	}

	accessToken, err := a.oauth.Exchange(r.Context(), req.Code)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody("code exchange failed"))
		return
	}

	id, err := a.identities.FetchIdentity(r.Context(), accessToken)
	if err != nil {
		respondError(w, err)
		return
	}

	if !a.policy.IsAuthorized(id) {
		writeJSON(w, http.StatusForbidden, errorBody("forbidden"))
		return
	}

	session, err := a.sessions.Issue(id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": session,
		"user":  id,
	})
}

// Me handles GET /api/auth/me: returns the authenticated identity.
func (a *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	writeJSON(w, http.StatusOK, id)
}

// Logout handles POST /api/auth/logout. Sessions are stateless tokens, so
// the client simply discards its copy.
func (a *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
