package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/slingshot/slingshot/internal/config"
	"github.com/slingshot/slingshot/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(cfg config.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIKeyAuth(cfg, logging.NewLogger()))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c))
	})
	return r
}

func TestAPIKeyAuthDisabledUsesDefaultUser(t *testing.T) {
	r := authRouter(config.AuthConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, DefaultUserID, w.Body.String())
}

func TestAPIKeyAuthMapsKeyToUser(t *testing.T) {
	r := authRouter(config.AuthConfig{
		Enabled: true,
		Keys:    map[string]string{"key-a": "alice", "key-b": "bob"},
	})

	tests := []struct {
		name       string
		key        string
		wantStatus int
		wantUser   string
	}{
		{"alice", "key-a", http.StatusOK, "alice"},
		{"bob", "key-b", http.StatusOK, "bob"},
		{"missing key", "", http.StatusUnauthorized, ""},
		{"unknown key", "key-c", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantUser != "" {
				assert.Equal(t, tt.wantUser, w.Body.String())
			}
		})
	}
}

func TestMaskAPIKeys(t *testing.T) {
	masked := MaskAPIKeys([]string{"secret-key-1", "abc"})
	assert.Equal(t, "secr********", masked[0])
	assert.Equal(t, "***", masked[1])
}
