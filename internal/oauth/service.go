// Package oauth wraps the Google consent flow: authorization URLs,
// code exchange and token sources for outbound provider calls.
package oauth

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/slingshot/slingshot/internal/config"
	"github.com/slingshot/slingshot/internal/errors"
	"github.com/slingshot/slingshot/internal/logging"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Service drives the Google OAuth flow for a configured client.
type Service struct {
	cfg    *oauth2.Config
	logger *logging.Logger
}

// NewService creates an OAuth service from the Google section of the
// config. Incomplete client settings are reported per operation rather
// than at construction so the rest of the API stays usable.
func NewService(cfg config.GoogleConfig, logger *logging.Logger) *Service {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = config.DefaultGoogleScopes
	}
	return &Service{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		logger: logger,
	}
}

func (s *Service) checkConfig() error {
	switch {
	case s.cfg.ClientID == "":
		return &errors.ErrOAuthConfig{Missing: "client_id"}
	case s.cfg.ClientSecret == "":
		return &errors.ErrOAuthConfig{Missing: "client_secret"}
	case s.cfg.RedirectURL == "":
		return &errors.ErrOAuthConfig{Missing: "redirect_url"}
	}
	return nil
}

// AuthorizationURL builds the consent URL for a state token.
// Offline access plus a forced consent prompt guarantees Google issues
// a refresh token even for repeat connections.
func (s *Service) AuthorizationURL(state string) (string, error) {
	if err := s.checkConfig(); err != nil {
		return "", err
	}
	return s.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent select_account"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	), nil
}

// Exchange trades an authorization code for tokens. There are no
// retries; a rejected code is terminal for the flow.
func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if err := s.checkConfig(); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, &errors.ErrInvalidCode{}
	}

	token, err := s.cfg.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if stderrors.As(err, &retrieveErr) {
			s.logger.WarnWithContext(ctx, "authorization code rejected",
				"status", retrieveErr.Response.StatusCode,
			)
			return nil, &errors.ErrInvalidCode{Err: err}
		}
		return nil, &errors.ErrInvalidCode{Err: err}
	}

	s.logger.InfoWithContext(ctx, "authorization code exchanged",
		"has_refresh_token", token.RefreshToken != "",
		"expires_at", token.Expiry.UTC().Format(time.RFC3339),
	)
	return token, nil
}

// TokenSource returns a source for outbound provider calls. With a
// refresh token the source refreshes before expiry; without one the
// access token is used as-is and expiry surfaces as a provider 401.
func (s *Service) TokenSource(ctx context.Context, accessToken, refreshToken string, expiresAt *time.Time) oauth2.TokenSource {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	if expiresAt != nil {
		token.Expiry = *expiresAt
	}
	if refreshToken == "" {
		return oauth2.StaticTokenSource(token)
	}
	return s.cfg.TokenSource(ctx, token)
}
