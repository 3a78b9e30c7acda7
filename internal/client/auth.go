// ABOUTME: Authentication endpoints: login, signup, token refresh, who-am-i
// ABOUTME: Token responses may arrive bare or wrapped in a data envelope

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// Login exchanges credentials for a token pair
func (c *Client) Login(ctx context.Context, email, password string) (TokenPair, error) {
	var pair TokenPair
	data, err := c.send(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return pair, err
	}
	if err := decode(UnwrapData(data), &pair); err != nil {
		return pair, err
	}
	if pair.AccessToken == "" {
		return pair, &Error{Kind: KindMalformed, Message: "login response has no access token"}
	}
	return pair, nil
}

// Register creates an account
func (c *Client) Register(ctx context.Context, req SignupRequest) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signup", req, nil)
}

// Refresh trades a refresh token for a new pair. Callers decide when to
// use it; the session never refreshes on its own.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	var pair TokenPair
	body := map[string]string{"refreshToken": refreshToken}
	data, err := c.send(ctx, http.MethodPost, "/api/auth/refresh", body)
	if err != nil {
		return pair, err
	}
	if err := decode(UnwrapData(data), &pair); err != nil {
		return pair, err
	}
	if pair.AccessToken == "" {
		return pair, &Error{Kind: KindMalformed, Message: "refresh response has no access token"}
	}
	return pair, nil
}

// Me returns the raw who-am-i payload; its shape varies, see UnwrapData
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	data, err := c.send(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// UnwrapData returns the "data" member of an envelope object, or data
// itself when it is not an envelope.
func UnwrapData(data []byte) []byte {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return data
	}
	inner := bytes.TrimSpace(envelope.Data)
	if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
		return data
	}
	return inner
}
