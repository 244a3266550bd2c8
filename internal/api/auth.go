package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/slingshot/slingshot/internal/config"
	"github.com/slingshot/slingshot/internal/logging"
)

// Constants for header names
const (
	// APIKeyHeader carries the application API key. The Authorization
	// header is reserved for Google tokens passed through to providers.
	APIKeyHeader = "X-API-Key"

	// DefaultUserID identifies requests when authentication is disabled.
	DefaultUserID = "default"

	userIDKey = "user_id"
)

// APIKeyAuth creates a middleware that resolves the dashboard user from
// the API key header. Each configured key maps to one user identity.
// When authentication is disabled every request runs as DefaultUserID.
func APIKeyAuth(cfg config.AuthConfig, logger *logging.Logger) gin.HandlerFunc {
	if !cfg.Enabled || len(cfg.Keys) == 0 {
		return func(c *gin.Context) {
			c.Set(userIDKey, DefaultUserID)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		apiKey := c.GetHeader(APIKeyHeader)

		if apiKey == "" {
			logger.WarnWithContext(c.Request.Context(), "API authentication failed: missing API key",
				"client_ip", c.ClientIP(),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{
				Success: false,
				Error:   "API key is required. Provide it in the '" + APIKeyHeader + "' header",
			})
			return
		}

		userID, ok := cfg.Keys[apiKey]
		if !ok {
			logger.WarnWithContext(c.Request.Context(), "API authentication failed: invalid API key",
				"client_ip", c.ClientIP(),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{
				Success: false,
				Error:   "Invalid API key",
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// CurrentUser returns the authenticated user for the request.
func CurrentUser(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if userID, ok := v.(string); ok && userID != "" {
			return userID
		}
	}
	return DefaultUserID
}

// MaskAPIKeys masks API keys for logging (shows only first 4 characters)
func MaskAPIKeys(keys []string) []string {
	masked := make([]string, len(keys))
	for i, key := range keys {
		if len(key) <= 4 {
			masked[i] = strings.Repeat("*", len(key))
		} else {
			masked[i] = key[:4] + strings.Repeat("*", len(key)-4)
		}
	}
	return masked
}
