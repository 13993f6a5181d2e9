package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
	AuthModeOAuth    = "oauth"
)

// Store modes.
const (
	StoreModeGitHub = "github"
	StoreModeFS     = "fs"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Store StoreConfig       `yaml:"store"`
	Auth  AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel       slog.Level `yaml:"log_level"`
	HTTP           HTTPConfig `yaml:"http"`
	AllowedOrigins []string   `yaml:"allowed_origins"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig selects and configures the content store backing the admin
// panel.
//
// Mode controls where content lives:
//   - "github" (default): the published GitHub Pages repository, via the
//     Contents API.
//   - "fs": a local working copy, suitable for offline editing and tests.
type StoreConfig struct {
	Mode   string            `yaml:"mode"`
	GitHub GitHubStoreConfig `yaml:"github"`
	FS     FSStoreConfig     `yaml:"fs"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = StoreModeGitHub
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(StoreModeGitHub, StoreModeFS)),
	); err != nil {
		return err
	}
	switch c.Mode {
	case StoreModeGitHub:
		return c.GitHub.Validate()
	case StoreModeFS:
		return c.FS.Validate()
	}
	return nil
}

// GitHubStoreConfig holds the published repository coordinates.
type GitHubStoreConfig struct {
	Owner   string `yaml:"owner"`
	Repo    string `yaml:"repo"`
	Branch  string `yaml:"branch"`
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// Validate validates the GitHub store configuration.
func (c *GitHubStoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Owner, validation.Required),
		validation.Field(&c.Repo, validation.Required),
		validation.Field(&c.Token, validation.Required),
	)
}

// FSStoreConfig holds the local working copy path.
type FSStoreConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the filesystem store configuration.
func (c *FSStoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": static Bearer token authentication; Token must be non-empty.
//   - "oauth": GitHub OAuth login with an owner allowlist and signed
//     session tokens.
type AuthConfig struct {
	Mode  string      `yaml:"mode"`
	Token string      `yaml:"token"`
	OAuth OAuthConfig `yaml:"oauth"`
}

// OAuthConfig holds the GitHub OAuth application settings.
type OAuthConfig struct {
	ClientID        string   `yaml:"client_id"`
	ClientSecret    string   `yaml:"client_secret"`
	RedirectURL     string   `yaml:"redirect_url"`
	AllowedLogins   []string `yaml:"allowed_logins"`
	SessionSecret   string   `yaml:"session_secret"`
	SessionTTLHours int      `yaml:"session_ttl_hours"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken, AuthModeOAuth)),
	); err != nil {
		return err
	}
	switch c.Mode {
	case AuthModeToken:
		if c.Token == "" {
			return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
		}
	case AuthModeOAuth:
		if c.OAuth.SessionTTLHours <= 0 {
			c.OAuth.SessionTTLHours = 24
		}
		return validation.ValidateStruct(&c.OAuth,
			validation.Field(&c.OAuth.ClientID, validation.Required),
			validation.Field(&c.OAuth.ClientSecret, validation.Required),
			validation.Field(&c.OAuth.AllowedLogins, validation.Required),
			validation.Field(&c.OAuth.SessionSecret, validation.Required),
		)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode != AuthModeDisabled
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Mode: StoreModeGitHub,
			GitHub: GitHubStoreConfig{
				Branch: "main",
			},
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
