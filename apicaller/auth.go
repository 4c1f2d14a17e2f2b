package apicaller

import (
	"context"
	"encoding/base64"
)

// KeyFunc retrieves the API key for one attempt. It is consulted once per
// attempt, so rotated keys are picked up mid-retry. Returning an empty key
// is valid and means no auth header is added.
type KeyFunc func(ctx context.Context) (string, error)

// StaticKey returns a KeyFunc that always yields the given key.
func StaticKey(key string) KeyFunc {
	return func(context.Context) (string, error) { return key, nil }
}

// AuthStyle identifies how a retrieved key is placed on the request.
type AuthStyle int

const (
	// AuthBearer sends the key as "Authorization: Bearer <key>".
	AuthBearer AuthStyle = iota
	// AuthBasic sends the key as the basic-auth username with an empty
	// password, the form some APIs use for bare API keys.
	AuthBasic
	// AuthAPIKey sends the key in a dedicated header.
	AuthAPIKey
)

// AuthConfig configures how the key from a KeyFunc is applied.
type AuthConfig struct {
	// Style is the placement of the key. Defaults to AuthBearer.
	Style AuthStyle
	// Header is the header name for AuthAPIKey. Defaults to "X-API-Key".
	Header string
}

// BearerAuth creates a bearer-token auth config.
func BearerAuth() *AuthConfig {
	return &AuthConfig{Style: AuthBearer}
}

// BasicKeyAuth creates a basic auth config where the key is the username
// and the password is empty.
func BasicKeyAuth() *AuthConfig {
	return &AuthConfig{Style: AuthBasic}
}

// APIKeyAuth creates an API key auth config with a custom header name.
func APIKeyAuth(header string) *AuthConfig {
	return &AuthConfig{Style: AuthAPIKey, Header: header}
}

// apply places the key on the attempt's headers.
func (a *AuthConfig) apply(headers map[string]string, key string) {
	if key == "" {
		return
	}
	style := AuthBearer
	header := "X-API-Key"
	if a != nil {
		style = a.Style
		if a.Header != "" {
			header = a.Header
		}
	}
	switch style {
	case AuthBasic:
		creds := base64.StdEncoding.EncodeToString([]byte(key + ":"))
		headers["Authorization"] = "Basic " + creds
	case AuthAPIKey:
		headers[header] = key
	default:
		headers["Authorization"] = "Bearer " + key
	}
}
