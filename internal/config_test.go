package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestAuthConfig_OAuthModeRequiresSettings(t *testing.T) {
	cfg := AuthConfig{Mode: "oauth"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("oauth mode without settings should fail")
	}

	cfg = AuthConfig{Mode: "oauth", OAuth: OAuthConfig{
		ClientID:      "id",
		ClientSecret:  "secret",
		AllowedLogins: []string{"owner"},
		SessionSecret: "session-secret",
	}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("complete oauth config should pass: %v", err)
	}
	if cfg.OAuth.SessionTTLHours != 24 {
		t.Errorf("session ttl = %d, want default 24", cfg.OAuth.SessionTTLHours)
	}
}

func TestStoreConfig_DefaultsToGitHub(t *testing.T) {
	cfg := StoreConfig{GitHub: GitHubStoreConfig{Owner: "o", Repo: "r", Token: "t"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("github store should pass: %v", err)
	}
	if cfg.Mode != StoreModeGitHub {
		t.Errorf("mode = %q, want github", cfg.Mode)
	}
}

func TestStoreConfig_GitHubMissingToken(t *testing.T) {
	cfg := StoreConfig{Mode: "github", GitHub: GitHubStoreConfig{Owner: "o", Repo: "r"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing token should fail")
	}
}

func TestStoreConfig_FSRequiresPath(t *testing.T) {
	cfg := StoreConfig{Mode: "fs"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("fs store without path should fail")
	}
	cfg.FS.Path = "./content"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("fs store with path should pass: %v", err)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Store.Mode = StoreModeFS
	cfg.Store.FS.Path = "./content"
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Store.GitHub.Branch != "main" {
		t.Errorf("branch = %q", cfg.Store.GitHub.Branch)
	}
}
