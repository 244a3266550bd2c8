package google

import (
	stderrors "errors"
	"net/http"
	"testing"

	apperrors "github.com/slingshot/slingshot/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestMapErrorUnauthorized(t *testing.T) {
	err := mapError("ga4", &googleapi.Error{Code: http.StatusUnauthorized, Message: "invalid credentials"})

	var authErr *apperrors.ErrProviderAuth
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "ga4", authErr.Provider)
}

func TestMapErrorProviderFailure(t *testing.T) {
	err := mapError("gsc", &googleapi.Error{
		Code:    http.StatusForbidden,
		Message: "user does not have sufficient permissions",
		Body:    `{"error":{"code":403}}`,
	})

	var reqErr *apperrors.ErrProviderRequest
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusForbidden, reqErr.Code)
	assert.Equal(t, "user does not have sufficient permissions", reqErr.Message)
	assert.Contains(t, reqErr.Body, "403")
}

func TestMapErrorTokenRefreshFailure(t *testing.T) {
	retrieve := &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadRequest}}
	err := mapError("ga4", retrieve)

	var authErr *apperrors.ErrProviderAuth
	assert.ErrorAs(t, err, &authErr)
}

func TestMapErrorTransport(t *testing.T) {
	err := mapError("gsc", stderrors.New("dial tcp: connection refused"))

	var reqErr *apperrors.ErrProviderRequest
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 0, reqErr.Code)
	assert.Contains(t, reqErr.Message, "connection refused")
}

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, mapError("ga4", nil))
}
