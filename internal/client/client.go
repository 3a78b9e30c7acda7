// ABOUTME: HTTP client for the RE-V backend API
// ABOUTME: Attaches bearer tokens, normalizes JSON responses and errors for every feature area

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chikadol/rev-frontend-sub000/internal/cache"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the current access token. An empty string means
// the request is sent without an Authorization header.
type TokenSource interface {
	AccessToken() string
}

// Client is the API client for the RE-V backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	cache      *cache.Cache
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTokenSource sets where the bearer token comes from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithCache enables response caching for public catalogue listings
func WithCache(rc *cache.Cache) Option {
	return func(c *Client) { c.cache = rc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResetCache drops every cached response
func (c *Client) ResetCache() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// RequestOption adjusts a single outgoing request
type RequestOption func(*http.Request)

// WithHeader sets a header on the request, overriding the defaults
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// send performs the request and returns the raw 2xx body
func (c *Client) send(ctx context.Context, method, path string, body any, opts ...RequestOption) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("failed to marshal request: %v", err), Err: err}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("failed to create request: %v", err), Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("API request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: fmt.Sprintf("failed to read response: %v", err), Err: err}
	}

	c.logger.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// do sends the request and decodes the response into out (if non-nil)
func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	data, err := c.send(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// getCached is a GET whose body is cached when a cache is configured
func (c *Client) getCached(ctx context.Context, path string, out any) error {
	if c.cache != nil {
		if data, ok := c.cache.Get(path); ok {
			return decode(data, out)
		}
	}

	data, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := decode(data, out); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Set(path, data)
	}
	return nil
}

// invalidate drops cached responses under prefix after a write
func (c *Client) invalidate(prefix string) {
	if c.cache != nil {
		c.cache.ClearPrefix(prefix)
	}
}

// decode unmarshals data into out; empty bodies leave out untouched
func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindMalformed, Message: fmt.Sprintf("invalid response from backend: %v", err), Err: err}
	}
	return nil
}

// handleRequestError converts transport errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &Error{Kind: KindNetwork, Message: "request canceled", Err: err}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Kind: KindNetwork, Message: "request timed out", Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &Error{Kind: KindNetwork, Message: "request timed out", Err: err}
	}
	return &Error{Kind: KindNetwork, Message: fmt.Sprintf("cannot connect to backend at %s: %v", c.baseURL, err), Err: err}
}

// pathf builds a path with escaped segments
func pathf(format string, segments ...string) string {
	args := make([]any, len(segments))
	for i, s := range segments {
		args[i] = url.PathEscape(s)
	}
	return fmt.Sprintf(format, args...)
}

// withQuery appends non-empty query values to path
func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
