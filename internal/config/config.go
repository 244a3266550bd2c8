package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	Version string       `yaml:"version"`
	Server  ServerConfig `yaml:"server"`
	API     APIConfig    `yaml:"api"`
	Google  GoogleConfig `yaml:"google"`
	Store   StoreConfig  `yaml:"store"`
}

// ServerConfig contains server-related configuration.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	HTTPPort        int           `yaml:"http_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
}

// APIConfig contains API-related configuration.
type APIConfig struct {
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
}

// AuthConfig maps application API keys to user identities.
// Each key authenticates exactly one dashboard user.
type AuthConfig struct {
	Enabled bool              `yaml:"enabled"`
	Keys    map[string]string `yaml:"keys"` // api key -> user id
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	Enabled bool     `yaml:"enabled"`
	Origins []string `yaml:"origins"`
}

// GoogleConfig contains the OAuth client and consent flow settings.
type GoogleConfig struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURL  string   `yaml:"redirect_url"`
	Scopes       []string `yaml:"scopes"`
	// FrontendURL is where the callback redirects after a completed
	// consent flow. Tokens are never appended to this URL.
	FrontendURL string `yaml:"frontend_url"`
}

// StoreConfig contains credential storage configuration.
type StoreConfig struct {
	Driver        string        `yaml:"driver"` // "sqlite" or "memory"
	Path          string        `yaml:"path"`
	StateTTL      time.Duration `yaml:"state_ttl"`
	RetentionDays int           `yaml:"retention_days"`
}

// DefaultGoogleScopes are requested when the config does not override them.
var DefaultGoogleScopes = []string{
	"https://www.googleapis.com/auth/analytics.readonly",
	"https://www.googleapis.com/auth/webmasters.readonly",
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}

	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if err := c.Google.Validate(); err != nil {
		return fmt.Errorf("google: %w", err)
	}

	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	return nil
}

// Validate validates server configuration.
func (s *ServerConfig) Validate() error {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.HTTPPort == 0 {
		s.HTTPPort = 8318
	}
	if s.HTTPPort < 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("http_port must be between 1 and 65535")
	}
	if s.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 30 * time.Second
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.LogFormat == "" {
		s.LogFormat = "json"
	}
	return nil
}

// Validate validates API configuration.
func (a *APIConfig) Validate() error {
	if a.Auth.Enabled && len(a.Auth.Keys) == 0 {
		return fmt.Errorf("auth: keys is required when auth is enabled")
	}
	for key, userID := range a.Auth.Keys {
		if key == "" || userID == "" {
			return fmt.Errorf("auth: keys entries must map a non-empty key to a non-empty user id")
		}
	}
	if a.RateLimit.RequestsPerMinute <= 0 {
		a.RateLimit.RequestsPerMinute = 1000
	}
	// Cap rate limit to prevent abuse
	if a.RateLimit.RequestsPerMinute > 100000 {
		a.RateLimit.RequestsPerMinute = 100000
	}
	if a.RateLimit.Burst <= 0 {
		a.RateLimit.Burst = 100
	}
	if a.RateLimit.Burst > 10000 {
		a.RateLimit.Burst = 10000
	}
	return nil
}

// Validate validates Google OAuth configuration and applies defaults.
// Missing client credentials are not an error here; the OAuth service
// reports them per request so the rest of the API stays usable.
func (g *GoogleConfig) Validate() error {
	if len(g.Scopes) == 0 {
		g.Scopes = append([]string(nil), DefaultGoogleScopes...)
	}
	if g.FrontendURL == "" {
		g.FrontendURL = "http://localhost:5173"
	}
	return nil
}

// Validate validates store configuration and applies defaults.
func (s *StoreConfig) Validate() error {
	if s.Driver == "" {
		s.Driver = "sqlite"
	}
	if s.Driver != "sqlite" && s.Driver != "memory" {
		return fmt.Errorf("driver must be one of: sqlite, memory")
	}
	if s.Path == "" {
		s.Path = "./data/slingshot.db"
	}
	if s.StateTTL <= 0 {
		s.StateTTL = 10 * time.Minute
	}
	if s.RetentionDays < 0 {
		return fmt.Errorf("retention_days cannot be negative")
	}
	if s.RetentionDays == 0 {
		s.RetentionDays = 30
	}
	return nil
}
