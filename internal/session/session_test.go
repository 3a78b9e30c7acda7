package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/logger"
	"github.com/chikadol/rev-frontend-sub000/internal/tokenstore"
)

type fakeAPI struct {
	loginPair client.TokenPair
	loginErr  error
	meBody    string
	meErr     error

	loginCalls atomic.Int32
	meCalls    atomic.Int32
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (client.TokenPair, error) {
	f.loginCalls.Add(1)
	return f.loginPair, f.loginErr
}

func (f *fakeAPI) Me(_ context.Context) (json.RawMessage, error) {
	f.meCalls.Add(1)
	if f.meErr != nil {
		return nil, f.meErr
	}
	return json.RawMessage(f.meBody), nil
}

func newStore(t *testing.T, api AuthAPI, seed map[string]string, opts ...Option) (*Store, tokenstore.Store) {
	t.Helper()
	mem := tokenstore.NewMemory()
	for k, v := range seed {
		require.NoError(t, mem.Set(k, v))
	}
	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	return New(NewTokens(mem), api, opts...), mem
}

func TestNewStoreIsLoading(t *testing.T) {
	s, _ := newStore(t, &fakeAPI{}, nil)

	snap := s.Snapshot()
	assert.True(t, snap.Loading)
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Equal(t, Uninitialized, s.State())
}

func TestInitializeWithoutTokenMakesNoCall(t *testing.T) {
	api := &fakeAPI{}
	s, _ := newStore(t, api, nil)

	snap := s.Initialize(context.Background())

	assert.Equal(t, int32(0), api.meCalls.Load())
	assert.False(t, snap.Loading)
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Equal(t, LoggedOut, s.State())
}

func TestInitializeResolvesUser(t *testing.T) {
	api := &fakeAPI{meBody: `{"userId":"u1","username":"a","roles":["USER"]}`}
	s, _ := newStore(t, api, map[string]string{tokenstore.AccessTokenKey: "tok"})

	snap := s.Initialize(context.Background())

	require.True(t, snap.IsAuthenticated)
	assert.False(t, snap.Loading)
	assert.Equal(t, &UserProfile{UserID: "u1", Username: "a", Roles: []string{"USER"}}, snap.User)
	assert.Equal(t, LoggedIn, s.State())
}

func TestInitializeRunsOnce(t *testing.T) {
	api := &fakeAPI{meBody: `{"userId":"u1","username":"a","roles":[]}`}
	s, _ := newStore(t, api, map[string]string{tokenstore.AccessTokenKey: "tok"})

	s.Initialize(context.Background())
	s.Initialize(context.Background())

	assert.Equal(t, int32(1), api.meCalls.Load())
}

func TestInitializeFailureClearsTokens(t *testing.T) {
	api := &fakeAPI{meErr: &client.Error{Kind: client.KindUnauthorized, Status: 401, Message: "expired"}}
	s, mem := newStore(t, api, map[string]string{
		tokenstore.AccessTokenKey:  "tok",
		tokenstore.RefreshTokenKey: "ref",
	})

	snap := s.Initialize(context.Background())

	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.User)
	assert.Empty(t, mem.Get(tokenstore.AccessTokenKey))
	assert.Empty(t, mem.Get(tokenstore.RefreshTokenKey))
}

func TestInitializeNetworkFailureAlsoClearsTokens(t *testing.T) {
	api := &fakeAPI{meErr: &client.Error{Kind: client.KindNetwork, Message: "cannot connect"}}
	s, mem := newStore(t, api, map[string]string{tokenstore.AccessTokenKey: "tok"})

	s.Initialize(context.Background())

	assert.Empty(t, mem.Get(tokenstore.AccessTokenKey))
	assert.Equal(t, LoggedOut, s.State())
}

func TestInitializeMalformedProfileClearsTokens(t *testing.T) {
	api := &fakeAPI{meBody: `{"username":"a"}`}
	s, mem := newStore(t, api, map[string]string{tokenstore.AccessTokenKey: "tok"})

	snap := s.Initialize(context.Background())

	assert.False(t, snap.IsAuthenticated)
	assert.Empty(t, mem.Get(tokenstore.AccessTokenKey))
}

func TestLoginPersistsTokensAndResolves(t *testing.T) {
	api := &fakeAPI{
		loginPair: client.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		meBody:    `{"data":{"userId":"u1","username":"a","roles":["USER","ADMIN"]}}`,
	}
	s, mem := newStore(t, api, nil)

	snap, err := s.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, "acc", mem.Get(tokenstore.AccessTokenKey))
	assert.Equal(t, "ref", mem.Get(tokenstore.RefreshTokenKey))
	require.True(t, snap.IsAuthenticated)
	assert.True(t, snap.User.IsAdmin())
	assert.Equal(t, int32(1), api.meCalls.Load())
}

func TestLoginRejectedReturnsAuthenticationError(t *testing.T) {
	api := &fakeAPI{loginErr: &client.Error{Kind: client.KindUnauthorized, Status: 401, Message: "bad credentials"}}
	s, mem := newStore(t, api, nil)

	_, err := s.Login(context.Background(), "a@example.com", "wrong")

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "bad credentials", authErr.Error())
	assert.Equal(t, client.KindUnauthorized, client.KindOf(err))
	assert.Empty(t, mem.Get(tokenstore.AccessTokenKey))
	assert.Empty(t, mem.Get(tokenstore.RefreshTokenKey))
	assert.Equal(t, int32(0), api.meCalls.Load())
}

func TestLoginNetworkErrorIsNotAuthenticationError(t *testing.T) {
	api := &fakeAPI{loginErr: &client.Error{Kind: client.KindNetwork, Message: "cannot connect to backend"}}
	s, _ := newStore(t, api, nil)

	_, err := s.Login(context.Background(), "a@example.com", "pw")

	require.Error(t, err)
	var authErr *AuthenticationError
	assert.False(t, errors.As(err, &authErr))
}

func TestLoginThenWhoAmIFailure(t *testing.T) {
	api := &fakeAPI{
		loginPair: client.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		meErr:     &client.Error{Kind: client.KindForbidden, Status: 403, Message: "nope"},
	}
	s, mem := newStore(t, api, nil)

	snap, err := s.Login(context.Background(), "a@example.com", "pw")

	require.Error(t, err)
	assert.False(t, snap.IsAuthenticated)
	assert.Empty(t, mem.Get(tokenstore.AccessTokenKey))
}

func TestLogoutIsSynchronous(t *testing.T) {
	api := &fakeAPI{meBody: `{"userId":"u1","username":"a","roles":["USER"]}`}
	var navigated int
	s, mem := newStore(t, api, map[string]string{
		tokenstore.AccessTokenKey:  "tok",
		tokenstore.RefreshTokenKey: "ref",
	}, WithOnLogout(func() { navigated++ }))
	s.Initialize(context.Background())

	s.Logout()

	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Empty(t, mem.Get(tokenstore.AccessTokenKey))
	assert.Empty(t, mem.Get(tokenstore.RefreshTokenKey))
	assert.Equal(t, 1, navigated)
}

func TestLogoutBeforeInitializeSkipsRestore(t *testing.T) {
	api := &fakeAPI{meBody: `{"userId":"u1"}`}
	s, _ := newStore(t, api, map[string]string{tokenstore.AccessTokenKey: "tok"})

	s.Logout()
	snap := s.Initialize(context.Background())

	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, int32(0), api.meCalls.Load())
}

func TestRefreshUser(t *testing.T) {
	api := &fakeAPI{meBody: `{"userId":"u1","username":"a","roles":["USER"]}`}
	s, _ := newStore(t, api, map[string]string{tokenstore.AccessTokenKey: "tok"})
	s.Initialize(context.Background())

	api.meBody = `{"userId":"u1","username":"renamed","roles":["USER"]}`
	snap, err := s.RefreshUser(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "renamed", snap.User.Username)
	assert.Equal(t, int32(2), api.meCalls.Load())
}

func TestRefreshUserWithoutToken(t *testing.T) {
	api := &fakeAPI{}
	s, _ := newStore(t, api, nil)

	snap, err := s.RefreshUser(context.Background())

	require.NoError(t, err)
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, int32(0), api.meCalls.Load())
}

func TestAdoptTokens(t *testing.T) {
	api := &fakeAPI{meBody: `{"userId":42,"username":"oauth-user"}`}
	s, mem := newStore(t, api, nil)

	snap, err := s.AdoptTokens(context.Background(), client.TokenPair{AccessToken: "acc", RefreshToken: "ref"})

	require.NoError(t, err)
	assert.Equal(t, "acc", mem.Get(tokenstore.AccessTokenKey))
	assert.Equal(t, "42", snap.User.UserID)
	assert.Equal(t, []string{}, snap.User.Roles)
}

func TestSnapshotRolesNeverNil(t *testing.T) {
	api := &fakeAPI{meBody: `{"userId":"u1","username":"a","roles":"USER"}`}
	s, _ := newStore(t, api, map[string]string{tokenstore.AccessTokenKey: "tok"})

	snap := s.Initialize(context.Background())

	require.NotNil(t, snap.User)
	assert.NotNil(t, snap.User.Roles)
	assert.Empty(t, snap.User.Roles)
	out, err := json.Marshal(snap.User)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"roles":[]`)
	assert.NotNil(t, s.Snapshot().User.Roles)
}

func TestSnapshotIsACopy(t *testing.T) {
	api := &fakeAPI{meBody: `{"userId":"u1","username":"a","roles":["USER"]}`}
	s, _ := newStore(t, api, map[string]string{tokenstore.AccessTokenKey: "tok"})
	snap := s.Initialize(context.Background())

	snap.User.Roles[0] = "ADMIN"

	assert.False(t, s.Snapshot().User.IsAdmin())
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *UserProfile
		wantErr bool
	}{
		{
			name: "bare",
			body: `{"userId":"u1","username":"a","roles":["USER"]}`,
			want: &UserProfile{UserID: "u1", Username: "a", Roles: []string{"USER"}},
		},
		{
			name: "envelope",
			body: `{"data":{"userId":"u2","username":"b","roles":[]}}`,
			want: &UserProfile{UserID: "u2", Username: "b", Roles: []string{}},
		},
		{
			name: "roles not an array",
			body: `{"userId":"u3","username":"c","roles":"ADMIN"}`,
			want: &UserProfile{UserID: "u3", Username: "c", Roles: []string{}},
		},
		{name: "missing id", body: `{"username":"d"}`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProfile([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedProfile)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasRole(t *testing.T) {
	u := &UserProfile{Roles: []string{"ROLE_admin", "USER"}}

	assert.True(t, u.HasRole("ADMIN"))
	assert.True(t, u.IsAdmin())
	assert.True(t, u.HasRole("user"))
	assert.False(t, u.HasRole("MODERATOR"))

	var nilUser *UserProfile
	assert.False(t, nilUser.IsAdmin())
}

func TestTokensSetRejectsEmptyAccessToken(t *testing.T) {
	tokens := NewTokens(tokenstore.NewMemory())

	err := tokens.Set(client.TokenPair{RefreshToken: "ref"})

	require.Error(t, err)
	assert.False(t, tokens.Present())
}

// failingStore rejects writes to one key
type failingStore struct {
	tokenstore.Store
	failKey string
}

func (f *failingStore) Set(key, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.Store.Set(key, value)
}

func TestTokensSetLeavesNoHalfPair(t *testing.T) {
	mem := tokenstore.NewMemory()
	tokens := NewTokens(&failingStore{Store: mem, failKey: tokenstore.RefreshTokenKey})

	err := tokens.Set(client.TokenPair{AccessToken: "acc", RefreshToken: "ref"})

	require.Error(t, err)
	assert.False(t, tokens.Present())
	assert.Empty(t, mem.Get(tokenstore.AccessTokenKey))
	assert.Empty(t, mem.Get(tokenstore.RefreshTokenKey))
}

func TestLoginPersistFailureKeepsLoggedOut(t *testing.T) {
	api := &fakeAPI{
		loginPair: client.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		meBody:    `{"userId":"u1","username":"a"}`,
	}
	mem := tokenstore.NewMemory()
	s := New(NewTokens(&failingStore{Store: mem, failKey: tokenstore.RefreshTokenKey}), api, WithLogger(logger.Discard()))

	snap, err := s.Login(context.Background(), "a@example.com", "pw")

	require.Error(t, err)
	assert.False(t, snap.IsAuthenticated)
	assert.Empty(t, mem.Get(tokenstore.AccessTokenKey))
	assert.Equal(t, int32(0), api.meCalls.Load())
}

func TestParseClaims(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u1",
		"roles": []string{"USER", "ADMIN"},
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := ParseClaims(signed)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, []string{"USER", "ADMIN"}, claims.Roles)
	assert.True(t, claims.IssuedAt.Equal(now))
	assert.False(t, claims.Expired(now))
	assert.True(t, claims.Expired(now.Add(2*time.Hour)))
}

func TestParseClaimsSingleRole(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u2",
		"role": "USER",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := ParseClaims(signed)
	require.NoError(t, err)

	assert.Equal(t, []string{"USER"}, claims.Roles)
	assert.False(t, claims.Expired(time.Now()))
}

func TestParseClaimsRejectsGarbage(t *testing.T) {
	_, err := ParseClaims("not-a-jwt")
	assert.Error(t, err)

	_, err = ParseClaims("")
	assert.Error(t, err)
}
