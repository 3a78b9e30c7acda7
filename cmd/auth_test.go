// ABOUTME: Tests for login, logout, whoami and the OAuth callback command
// ABOUTME: Runs each command against an httptest backend and a temp token file

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
)

func authBackend(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req client.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode login: %v", err)
		}
		if req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data": client.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"},
		})
	})
	mux.HandleFunc("GET /api/auth/me", meHandler("ROLE_USER"))
	return mux
}

func TestRunLogin_Success(t *testing.T) {
	dir := useBackend(t, authBackend(t))

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, "fan@example.com", "secret")

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Logged in as mina (ROLE_USER)") {
		t.Errorf("unexpected output: %q", buf.String())
	}
	tokens := storedTokens(dir)
	if tokens.AccessToken() != "access-1" || tokens.RefreshToken() != "refresh-1" {
		t.Errorf("tokens not persisted: %q / %q", tokens.AccessToken(), tokens.RefreshToken())
	}
}

func TestRunLogin_Rejected(t *testing.T) {
	dir := useBackend(t, authBackend(t))

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, "fan@example.com", "wrong")

	if code != exitFailed {
		t.Errorf("expected exit code %d, got %d", exitFailed, code)
	}
	if !strings.Contains(buf.String(), "Invalid email or password") {
		t.Errorf("expected backend message, got %q", buf.String())
	}
	if storedTokens(dir).Present() {
		t.Error("rejected login must not persist tokens")
	}
}

func TestRunLogin_JSON(t *testing.T) {
	useBackend(t, authBackend(t))
	jsonOutput = true

	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf, "fan@example.com", "secret"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["userId"] != "7" {
		t.Errorf("expected numeric id rendered as string, got %v", parsed["userId"])
	}
}

func TestRunWhoami(t *testing.T) {
	dir := useBackend(t, authBackend(t))

	var buf bytes.Buffer
	if code := runWhoami(context.Background(), &buf); code != exitLoginRequired {
		t.Errorf("expected exit code %d without tokens, got %d", exitLoginRequired, code)
	}

	seedTokens(t, dir)
	buf.Reset()
	if code := runWhoami(context.Background(), &buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	for _, want := range []string{"User:     mina", "User ID:  7", "ROLE_USER"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q, got %q", want, buf.String())
		}
	}
}

func TestRunWhoami_JSONRolesEmptyList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"userId": "u1", "username": "mina", "roles": "USER"})
	})
	dir := useBackend(t, mux)
	seedTokens(t, dir)
	jsonOutput = true

	var buf bytes.Buffer
	if code := runWhoami(context.Background(), &buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	var parsed struct {
		User struct {
			Roles []string `json:"roles"`
		} `json:"user"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.User.Roles == nil || len(parsed.User.Roles) != 0 {
		t.Errorf("expected roles to be an empty list, got:\n%s", buf.String())
	}
}

func TestRunWhoami_RejectedTokenClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "expired"})
	})
	dir := useBackend(t, mux)
	seedTokens(t, dir)

	var buf bytes.Buffer
	if code := runWhoami(context.Background(), &buf); code != exitLoginRequired {
		t.Errorf("expected exit code %d, got %d", exitLoginRequired, code)
	}
	if storedTokens(dir).Present() {
		t.Error("expected tokens to be cleared")
	}
}

func TestRunLogout(t *testing.T) {
	dir := useBackend(t, authBackend(t))
	seedTokens(t, dir)

	var buf bytes.Buffer
	if code := runLogout(&buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if storedTokens(dir).Present() {
		t.Error("expected tokens to be cleared")
	}
	if strings.TrimSpace(buf.String()) != "Logged out" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRunOAuthCallback(t *testing.T) {
	dir := useBackend(t, authBackend(t))

	var buf bytes.Buffer
	code := runOAuthCallback(context.Background(), &buf, "http://localhost:3000/oauth/callback?accessToken=oa&refreshToken=or&provider=NAVER")
	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "via Naver") {
		t.Errorf("expected provider in output, got %q", buf.String())
	}
	if storedTokens(dir).AccessToken() != "oa" {
		t.Error("expected callback tokens to be stored")
	}
}

func TestRunOAuthCallback_Invalid(t *testing.T) {
	useBackend(t, authBackend(t))

	var buf bytes.Buffer
	if code := runOAuthCallback(context.Background(), &buf, "/oauth/callback?error=access_denied"); code != exitFailed {
		t.Errorf("expected exit code %d, got %d", exitFailed, code)
	}
}

func TestRunOAuthLinks(t *testing.T) {
	useBackend(t, authBackend(t))

	var buf bytes.Buffer
	if code := runOAuthLinks(&buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "/oauth2/authorization/google") {
		t.Errorf("expected google link, got %q", buf.String())
	}
}

func TestRunSignup_RequiresFlags(t *testing.T) {
	var buf bytes.Buffer
	if code := runSignup(context.Background(), &buf, "fan@example.com", "", ""); code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
}

func TestPromptCredentials_NonInteractive(t *testing.T) {
	useBackend(t, http.NotFoundHandler())

	email, password, err := promptCredentials("a@b.c", "pw")
	if err != nil || email != "a@b.c" || password != "pw" {
		t.Errorf("flags should pass through, got %q %q %v", email, password, err)
	}
	if _, _, err := promptCredentials("a@b.c", ""); err == nil {
		t.Error("expected an error when a value is missing and stdin is not a terminal")
	}
}
