package headers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   string
		wantOK bool
	}{
		{"valid", "Bearer ya29.abc", "ya29.abc", true},
		{"lowercase scheme", "bearer ya29.abc", "ya29.abc", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", false},
		{"scheme only", "Bearer", "", false},
		{"empty token", "Bearer   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.value != "" {
				h.Set(Authorization, tt.value)
			}

			token, ok := ParseBearer(h)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestParseProviderTokens(t *testing.T) {
	h := http.Header{}
	h.Set(Authorization, "Bearer access-token")
	h.Set(RefreshToken, "refresh-token")

	tokens, ok := ParseProviderTokens(h)
	require.True(t, ok)
	assert.Equal(t, "access-token", tokens.AccessToken)
	assert.Equal(t, "refresh-token", tokens.RefreshToken)
}

func TestParseProviderTokensAccessOnly(t *testing.T) {
	h := http.Header{}
	h.Set(Authorization, "Bearer access-token")

	tokens, ok := ParseProviderTokens(h)
	require.True(t, ok)
	assert.Equal(t, "access-token", tokens.AccessToken)
	assert.Empty(t, tokens.RefreshToken)
}

func TestParseProviderTokensRefreshAlone(t *testing.T) {
	h := http.Header{}
	h.Set(RefreshToken, "refresh-token")

	_, ok := ParseProviderTokens(h)
	assert.False(t, ok)
}
