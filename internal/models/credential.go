package models

import (
	"strings"
	"time"
)

// Provider identifies an external analytics provider.
type Provider string

const (
	// ProviderGoogle covers both Google Analytics 4 and Search Console,
	// which share a single OAuth consent.
	ProviderGoogle Provider = "google"
)

// Credential holds the OAuth tokens issued by a provider for a single user.
type Credential struct {
	UserID       string     `json:"user_id"`
	Provider     Provider   `json:"provider"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	Scope        string     `json:"scope,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsExpired reports whether the access token is past its expiry.
// Credentials without an expiry never expire.
func (c *Credential) IsExpired() bool {
	if c.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*c.ExpiresAt)
}

// HasRefreshToken reports whether the credential can be refreshed.
func (c *Credential) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// Redacted returns a copy safe for logging. Tokens keep their first
// four characters so operators can correlate without seeing secrets.
func (c *Credential) Redacted() Credential {
	out := *c
	out.AccessToken = maskToken(c.AccessToken)
	out.RefreshToken = maskToken(c.RefreshToken)
	return out
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-4)
}
