// ABOUTME: Owner of the persisted access/refresh token pair
// ABOUTME: Passed to the API client as its token source; the only writer of token storage

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/tokenstore"
)

// Tokens controls reads and writes of the token pair
type Tokens struct {
	store tokenstore.Store
}

// NewTokens wraps a store
func NewTokens(store tokenstore.Store) *Tokens {
	return &Tokens{store: store}
}

// AccessToken implements client.TokenSource
func (t *Tokens) AccessToken() string {
	return t.store.Get(tokenstore.AccessTokenKey)
}

// RefreshToken returns the persisted refresh token
func (t *Tokens) RefreshToken() string {
	return t.store.Get(tokenstore.RefreshTokenKey)
}

// Present reports whether an access token is persisted
func (t *Tokens) Present() bool {
	return t.AccessToken() != ""
}

// Set persists both tokens. On failure nothing stays persisted.
func (t *Tokens) Set(pair client.TokenPair) error {
	if pair.AccessToken == "" {
		return errors.New("access token is empty")
	}
	if err := t.store.Set(tokenstore.AccessTokenKey, pair.AccessToken); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}
	if err := t.store.Set(tokenstore.RefreshTokenKey, pair.RefreshToken); err != nil {
		// Never leave half a pair behind
		_ = t.Clear()
		return fmt.Errorf("persist refresh token: %w", err)
	}
	return nil
}

// Clear removes both tokens
func (t *Tokens) Clear() error {
	return t.store.Remove(tokenstore.AccessTokenKey, tokenstore.RefreshTokenKey)
}

// Claims is what the access token says about itself. It is read without
// signature verification and is for display only; the backend remains the
// authority through who-am-i.
type Claims struct {
	Subject   string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim is in the past
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// AccessClaims decodes the access token's claims
func (t *Tokens) AccessClaims() (*Claims, error) {
	return ParseClaims(t.AccessToken())
}

// ParseClaims decodes a JWT's payload without verifying it
func ParseClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.New("no token")
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	claims := &Claims{}
	claims.Subject, _ = mc.GetSubject()
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	claims.Roles = rolesFrom(mc["roles"])
	if len(claims.Roles) == 0 {
		claims.Roles = rolesFrom(mc["role"])
	}
	return claims, nil
}

func rolesFrom(v any) []string {
	switch r := v.(type) {
	case string:
		if r == "" {
			return nil
		}
		return []string{r}
	case []any:
		roles := make([]string, 0, len(r))
		for _, item := range r {
			if s, ok := item.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles
	default:
		return nil
	}
}
