// Package auth resolves GitHub identities and enforces the owner policy.
package auth

// Identity is a resolved GitHub user.
type Identity struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Policy decides whether an identity may use the admin panel.
type Policy interface {
	IsAuthorized(id Identity) bool
}

// Allowlist authorizes a fixed set of logins. The single-owner deployment
// is just an allowlist of one.
type Allowlist struct {
	logins map[string]struct{}
}

// NewAllowlist builds a policy from the configured logins.
func NewAllowlist(logins []string) *Allowlist {
	set := make(map[string]struct{}, len(logins))
	for _, l := range logins {
		set[l] = struct{}{}
	}
	return &Allowlist{logins: set}
}

// IsAuthorized reports whether the identity's login is allow-listed.
func (a *Allowlist) IsAuthorized(id Identity) bool {
	_, ok := a.logins[id.Login]
	return ok
}
