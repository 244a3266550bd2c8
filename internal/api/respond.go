package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slingshot/slingshot/internal/errors"
)

// Envelope is the uniform response shape for every JSON endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, Envelope{Success: false, Error: message, Details: details})
}

// respondAppError maps domain errors to HTTP statuses: validation
// failures are 400, missing or rejected credentials 401, everything
// else 500 with the upstream payload preserved in details.
func (s *Server) respondAppError(c *gin.Context, err error) {
	var (
		valErr     *errors.ErrValidation
		missingErr *errors.ErrMissingCredential
		authErr    *errors.ErrProviderAuth
		codeErr    *errors.ErrInvalidCode
		reqErr     *errors.ErrProviderRequest
		oauthErr   *errors.ErrOAuthConfig
	)

	endpoint := c.FullPath()
	if endpoint == "" {
		endpoint = c.Request.URL.Path
	}

	switch {
	case stderrors.As(err, &valErr):
		respondError(c, http.StatusBadRequest, valErr.Error(), nil)
	case stderrors.As(err, &missingErr):
		s.metrics.RecordError("missing_credential", endpoint, c.Request.Method)
		respondError(c, http.StatusUnauthorized, missingErr.Error(), nil)
	case stderrors.As(err, &authErr):
		s.metrics.RecordError("provider_auth", endpoint, c.Request.Method)
		respondError(c, http.StatusUnauthorized, authErr.Error(), nil)
	case stderrors.As(err, &codeErr):
		s.metrics.RecordError("invalid_code", endpoint, c.Request.Method)
		respondError(c, http.StatusBadRequest, codeErr.Error(), nil)
	case stderrors.As(err, &reqErr):
		s.metrics.RecordError("provider_request", endpoint, c.Request.Method)
		var details interface{}
		if reqErr.Body != "" {
			details = gin.H{"status": reqErr.Code, "body": reqErr.Body}
		}
		respondError(c, http.StatusInternalServerError, reqErr.Error(), details)
	case stderrors.As(err, &oauthErr):
		s.metrics.RecordError("oauth_config", endpoint, c.Request.Method)
		respondError(c, http.StatusInternalServerError, oauthErr.Error(), nil)
	default:
		s.metrics.RecordError("internal", endpoint, c.Request.Method)
		s.logger.ErrorWithContext(c.Request.Context(), "unhandled error", "error", err.Error())
		respondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}
