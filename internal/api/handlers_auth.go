package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/slingshot/slingshot/internal/logging"
	"github.com/slingshot/slingshot/internal/models"
)

// handleAuthStart begins the Google consent flow. A single-use state
// token bound to the authenticated user protects the callback against
// forgery; the browser is redirected to Google's consent screen.
func (s *Server) handleAuthStart(c *gin.Context) {
	userID := CurrentUser(c)
	state := uuid.New().String()

	ttl := s.config.Store.StateTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if err := s.store.PutOAuthState(state, userID, time.Now().Add(ttl)); err != nil {
		s.respondAppError(c, err)
		return
	}

	url, err := s.oauthSvc.AuthorizationURL(state)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	logging.NewAuditEvent(logging.OAuthFlowStart, "oauth flow started", logging.StatusSuccess).
		WithUserID(userID).
		WithIPAddress(c.ClientIP()).
		Emit(s.logger)

	c.Redirect(http.StatusFound, url)
}

// handleAuthCallback completes the consent flow: the state is consumed,
// the code exchanged and the resulting tokens stored server-side. The
// browser is sent back to the frontend with no token material in the URL.
func (s *Server) handleAuthCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	userID, ok := s.store.TakeOAuthState(state)
	if !ok {
		logging.NewAuditEvent(logging.OAuthExchange, "oauth callback rejected", logging.StatusFailure).
			WithIPAddress(c.ClientIP()).
			WithError("unknown or expired state").
			Emit(s.logger)
		respondError(c, http.StatusBadRequest, "unknown or expired state", nil)
		return
	}

	token, err := s.oauthSvc.Exchange(c.Request.Context(), code)
	if err != nil {
		s.metrics.RecordOAuthExchange("error")
		logging.NewAuditEvent(logging.OAuthExchange, "authorization code exchange failed", logging.StatusFailure).
			WithUserID(userID).
			WithIPAddress(c.ClientIP()).
			WithError(err.Error()).
			Emit(s.logger)
		s.respondAppError(c, err)
		return
	}
	s.metrics.RecordOAuthExchange("success")

	cred := &models.Credential{
		UserID:       userID,
		Provider:     models.ProviderGoogle,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		cred.ExpiresAt = &expiry
	}

	if err := s.store.SetCredential(cred); err != nil {
		s.metrics.RecordCredentialOp("set", "error")
		s.respondAppError(c, err)
		return
	}
	s.metrics.RecordCredentialOp("set", "success")

	logging.NewAuditEvent(logging.CredentialStore, "google credential stored", logging.StatusSuccess).
		WithUserID(userID).
		WithIPAddress(c.ClientIP()).
		WithResource(string(models.ProviderGoogle)).
		WithDetails(map[string]interface{}{"has_refresh_token": cred.HasRefreshToken()}).
		Emit(s.logger)

	c.Redirect(http.StatusFound, s.config.Google.FrontendURL+"?auth=success")
}

// storeTokensRequest carries tokens obtained outside the server-side
// consent flow, for clients that ran the flow themselves.
type storeTokensRequest struct {
	AccessToken  string     `json:"access_token" binding:"required"`
	RefreshToken string     `json:"refresh_token"`
	Scope        string     `json:"scope"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// handleStoreTokens upserts a credential for the authenticated user
func (s *Server) handleStoreTokens(c *gin.Context) {
	var req storeTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	userID := CurrentUser(c)
	cred := &models.Credential{
		UserID:       userID,
		Provider:     models.ProviderGoogle,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		Scope:        req.Scope,
		ExpiresAt:    req.ExpiresAt,
	}

	if err := s.store.SetCredential(cred); err != nil {
		s.metrics.RecordCredentialOp("set", "error")
		s.respondAppError(c, err)
		return
	}
	s.metrics.RecordCredentialOp("set", "success")

	logging.NewAuditEvent(logging.CredentialStore, "google credential stored", logging.StatusSuccess).
		WithUserID(userID).
		WithIPAddress(c.ClientIP()).
		WithResource(string(models.ProviderGoogle)).
		WithDetails(map[string]interface{}{"has_refresh_token": cred.HasRefreshToken()}).
		Emit(s.logger)

	respondOK(c, gin.H{"stored": true})
}

// handleTokenStatus reports whether the user has a Google credential.
// Token values are always redacted.
func (s *Server) handleTokenStatus(c *gin.Context) {
	userID := CurrentUser(c)

	cred, ok := s.store.GetCredential(userID, models.ProviderGoogle)
	if !ok {
		respondError(c, http.StatusNotFound, "no google credential stored", nil)
		return
	}

	respondOK(c, gin.H{
		"credential":        cred.Redacted(),
		"is_expired":        cred.IsExpired(),
		"has_refresh_token": cred.HasRefreshToken(),
	})
}

// handleDeleteTokens disconnects the user's Google account
func (s *Server) handleDeleteTokens(c *gin.Context) {
	userID := CurrentUser(c)

	if err := s.store.DeleteCredential(userID, models.ProviderGoogle); err != nil {
		s.metrics.RecordCredentialOp("delete", "error")
		s.respondAppError(c, err)
		return
	}
	s.metrics.RecordCredentialOp("delete", "success")

	logging.NewAuditEvent(logging.CredentialDelete, "google credential deleted", logging.StatusSuccess).
		WithUserID(userID).
		WithIPAddress(c.ClientIP()).
		WithResource(string(models.ProviderGoogle)).
		Emit(s.logger)

	respondOK(c, gin.H{"deleted": true})
}
