// ABOUTME: Session store: who the current user is and whether they are logged in
// ABOUTME: Resolves identity from persisted tokens via who-am-i; login/logout/refresh transitions

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
)

// State is the session lifecycle position
type State int

const (
	Uninitialized State = iota
	Resolving
	LoggedIn
	LoggedOut
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Resolving:
		return "resolving"
	case LoggedIn:
		return "logged_in"
	case LoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// UserProfile is the identity returned by who-am-i
type UserProfile struct {
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasRole matches role names case-insensitively, with or without a ROLE_ prefix
func (u *UserProfile) HasRole(role string) bool {
	if u == nil {
		return false
	}
	want := normalizeRole(role)
	for _, r := range u.Roles {
		if normalizeRole(r) == want {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the ADMIN role
func (u *UserProfile) IsAdmin() bool {
	return u.HasRole("ADMIN")
}

func normalizeRole(r string) string {
	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(r)), "ROLE_")
}

// Snapshot is a copy of the session at one point in time
type Snapshot struct {
	IsAuthenticated bool
	User            *UserProfile
	Loading         bool
}

// AuthAPI is the part of the backend the session needs
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (client.TokenPair, error)
	Me(ctx context.Context) (json.RawMessage, error)
}

// AuthenticationError is returned by Login when the backend rejects the
// credentials. Message is the backend's own text.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// ErrMalformedProfile means who-am-i answered without a usable user id
var ErrMalformedProfile = errors.New("who-am-i response has no userId")

// Store is the single source of truth for the current visitor
type Store struct {
	mu       sync.Mutex
	tokens   *Tokens
	api      AuthAPI
	state    State
	user     *UserProfile
	epoch    uint64 // bumped by Logout; stale resolutions are dropped
	onLogout func()
	logger   *slog.Logger
	initOnce sync.Once
}

// Option configures a Store
type Option func(*Store)

// WithOnLogout registers the navigation hook run after Logout
func WithOnLogout(fn func()) Option {
	return func(s *Store) { s.onLogout = fn }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a store in the Uninitialized state
func New(tokens *Tokens, api AuthAPI, opts ...Option) *Store {
	s := &Store{
		tokens: tokens,
		api:    api,
		state:  Uninitialized,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tokens returns the token owner, for wiring the API client
func (s *Store) Tokens() *Tokens {
	return s.tokens
}

// SetOnLogout replaces the logout navigation hook
func (s *Store) SetOnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = fn
}

// State returns the current lifecycle state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		IsAuthenticated: s.state == LoggedIn && s.user != nil,
		Loading:         s.state == Uninitialized || s.state == Resolving,
	}
	if s.user != nil {
		u := *s.user
		u.Roles = append([]string{}, s.user.Roles...)
		snap.User = &u
	}
	return snap
}

// Initialize resolves the session from persisted tokens. It runs once;
// later calls return the current snapshot. A failed resolution clears the
// tokens, so a transient network error logs the user out locally.
func (s *Store) Initialize(ctx context.Context) Snapshot {
	s.initOnce.Do(func() {
		if !s.tokens.Present() {
			s.mu.Lock()
			s.state = LoggedOut
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.state = Resolving
		s.mu.Unlock()

		if err := s.resolve(ctx); err != nil {
			s.logger.Warn("Session restore failed, tokens cleared", "error", err)
		}
	})
	return s.Snapshot()
}

// Login authenticates with email/password, persists the issued tokens and
// resolves the user. Rejected credentials yield *AuthenticationError and
// nothing is persisted.
func (s *Store) Login(ctx context.Context, email, password string) (Snapshot, error) {
	pair, err := s.api.Login(ctx, email, password)
	if err != nil {
		var apiErr *client.Error
		if errors.As(err, &apiErr) && apiErr.Status != 0 {
			return s.Snapshot(), &AuthenticationError{Message: apiErr.Message, Err: err}
		}
		return s.Snapshot(), err
	}

	return s.AdoptTokens(ctx, pair)
}

// AdoptTokens persists a pair obtained elsewhere (OAuth callback, explicit
// refresh) and resolves the user with it.
func (s *Store) AdoptTokens(ctx context.Context, pair client.TokenPair) (Snapshot, error) {
	if err := s.tokens.Set(pair); err != nil {
		return s.Snapshot(), err
	}

	// Login counts as initialization
	s.initOnce.Do(func() {})

	if err := s.resolve(ctx); err != nil {
		return s.Snapshot(), err
	}
	snap := s.Snapshot()
	if snap.User != nil {
		s.logger.Info("Logged in", "user", snap.User.Username)
	}
	return snap, nil
}

// RefreshUser re-runs who-am-i to resynchronize the profile
func (s *Store) RefreshUser(ctx context.Context) (Snapshot, error) {
	if !s.tokens.Present() {
		s.mu.Lock()
		s.user = nil
		s.state = LoggedOut
		s.mu.Unlock()
		return s.Snapshot(), nil
	}
	err := s.resolve(ctx)
	return s.Snapshot(), err
}

// Logout clears tokens and identity synchronously, then runs the
// navigation hook.
func (s *Store) Logout() {
	s.mu.Lock()
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("Failed to clear tokens", "error", err)
	}
	s.user = nil
	s.state = LoggedOut
	s.epoch++
	hook := s.onLogout
	s.mu.Unlock()

	s.initOnce.Do(func() {})

	if hook != nil {
		hook()
	}
}

// resolve calls who-am-i and applies the result, unless a Logout happened
// while the call was in flight.
func (s *Store) resolve(ctx context.Context) error {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	raw, err := s.api.Me(ctx)
	var profile *UserProfile
	if err == nil {
		profile, err = ParseProfile(raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return errors.New("session was logged out during resolution")
	}

	if err != nil {
		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.logger.Warn("Failed to clear tokens", "error", clearErr)
		}
		s.user = nil
		s.state = LoggedOut
		return fmt.Errorf("resolve user: %w", err)
	}

	s.user = profile
	s.state = LoggedIn
	return nil
}

// ParseProfile reads a who-am-i payload, either bare or wrapped in a data
// envelope. roles defaults to empty when it is not an array.
func ParseProfile(raw []byte) (*UserProfile, error) {
	var fields map[string]any
	if err := json.Unmarshal(client.UnwrapData(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProfile, err)
	}

	userID := scalarString(fields["userId"])
	if userID == "" {
		return nil, ErrMalformedProfile
	}

	profile := &UserProfile{
		UserID:   userID,
		Username: scalarString(fields["username"]),
		Roles:    []string{},
	}
	if roles, ok := fields["roles"].([]any); ok {
		for _, r := range roles {
			if name, ok := r.(string); ok {
				profile.Roles = append(profile.Roles, name)
			}
		}
	}
	return profile, nil
}

// scalarString renders JSON strings and numbers; ids are numeric on some endpoints
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
