// Package headers provides parsing of authentication headers carried on
// incoming requests.
package headers

import (
	"net/http"
	"strings"
)

// Header names recognized on incoming requests.
const (
	Authorization = "Authorization"
	RefreshToken  = "X-Refresh-Token"
)

// ProviderTokens holds Google tokens supplied directly on a request,
// bypassing the server-side credential store.
type ProviderTokens struct {
	AccessToken  string
	RefreshToken string
}

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive.
func ParseBearer(h http.Header) (string, bool) {
	value := strings.TrimSpace(h.Get(Authorization))
	if value == "" {
		return "", false
	}

	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// ParseProviderTokens extracts provider tokens from the Authorization
// bearer header and the optional X-Refresh-Token header. Returns false
// when no access token is present; a refresh token alone is not enough
// to authenticate a provider call.
func ParseProviderTokens(h http.Header) (ProviderTokens, bool) {
	access, ok := ParseBearer(h)
	if !ok {
		return ProviderTokens{}, false
	}
	return ProviderTokens{
		AccessToken:  access,
		RefreshToken: strings.TrimSpace(h.Get(RefreshToken)),
	}, true
}
