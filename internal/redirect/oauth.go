// ABOUTME: OAuth entry links and callback parsing for social login
// ABOUTME: The backend hosts the OAuth flow; the client only links to it and reads the returned tokens

package redirect

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
)

// Provider is a backend-supported OAuth provider
type Provider string

const (
	Google Provider = "google"
	Naver  Provider = "naver"
	Kakao  Provider = "kakao"
)

// OAuthProviders lists providers in display order
var OAuthProviders = []Provider{Google, Naver, Kakao}

// Label returns the provider's display name
func (p Provider) Label() string {
	switch p {
	case Google:
		return "Google"
	case Naver:
		return "Naver"
	case Kakao:
		return "Kakao"
	default:
		return string(p)
	}
}

// ParseProvider matches a provider name case-insensitively
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range OAuthProviders {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown OAuth provider %q (expected google, naver or kakao)", name)
}

// LoginURL returns the backend's authorization entry point for provider
func LoginURL(baseURL string, p Provider) string {
	return strings.TrimRight(baseURL, "/") + "/oauth2/authorization/" + url.PathEscape(string(p))
}

// OAuthResult is what the callback route hands back after a social login
type OAuthResult struct {
	Tokens   client.TokenPair
	Provider Provider
}

// ErrMissingTokens means the callback URL did not carry both tokens
var ErrMissingTokens = errors.New("callback is missing accessToken or refreshToken")

// ParseOAuthCallback reads accessToken, refreshToken and provider from a
// callback URL. An error parameter from the backend is returned as-is.
func ParseOAuthCallback(rawURL string) (*OAuthResult, error) {
	q, err := queryOf(rawURL)
	if err != nil {
		return nil, err
	}

	if msg := q.Get("error"); msg != "" {
		return nil, fmt.Errorf("OAuth login failed: %s", msg)
	}

	access, refresh := q.Get("accessToken"), q.Get("refreshToken")
	if access == "" || refresh == "" {
		return nil, ErrMissingTokens
	}

	return &OAuthResult{
		Tokens:   client.TokenPair{AccessToken: access, RefreshToken: refresh},
		Provider: Provider(strings.ToLower(q.Get("provider"))),
	}, nil
}

// queryOf accepts a full URL, a path with query, or a bare query string
func queryOf(rawURL string) (url.Values, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return nil, errors.New("callback URL is empty")
	}
	if !strings.Contains(raw, "?") && strings.Contains(raw, "=") {
		raw = "?" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid callback URL: %w", err)
	}
	return u.Query(), nil
}
