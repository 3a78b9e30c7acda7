// ABOUTME: Tests for comment, reply, reaction and status commands
// ABOUTME: Verifies request payloads, tree rendering and auth exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
)

func strPtr(s string) *string { return &s }

type commentBackend struct {
	mu       sync.Mutex
	posted   []client.CommentInput
	deleted  []string
	unauthed bool
}

func (b *commentBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", meHandler("ADMIN"))
	mux.HandleFunc("GET /api/threads/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []client.Comment{
			{ID: "c1", AuthorName: "jae", Content: "Great show"},
			{ID: "c2", AuthorName: "mina", Content: "Agreed", ParentID: strPtr("c1")},
			{ID: "c3", AuthorName: "sol", Content: "Which encore?", ParentID: strPtr("c2")},
			{ID: "c4", AuthorName: "hyun", Content: "lost reply", ParentID: strPtr("gone")},
		})
	})
	mux.HandleFunc("POST /api/threads/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		unauthed := b.unauthed
		b.mu.Unlock()
		if unauthed {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		var in client.CommentInput
		json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		b.posted = append(b.posted, in)
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, client.Comment{ID: "c9", Content: in.Content, ParentID: in.ParentID})
	})
	mux.HandleFunc("DELETE /api/comments/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.deleted = append(b.deleted, r.PathValue("id"))
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/threads/{id}/reactions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, client.ReactionState{LikeCount: 4, DislikeCount: 1, MyReaction: client.ReactionLike})
	})
	mux.HandleFunc("GET /api/boards", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []client.Board{{ID: "b1", Name: "Free Talk"}, {ID: "b2", Name: "Setlists"}})
	})
	mux.HandleFunc("GET /api/notifications/unread-count", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"count": 5})
	})
	return mux
}

func TestRunCommentsList_RendersTree(t *testing.T) {
	b := &commentBackend{}
	useBackend(t, b.handler())

	var buf bytes.Buffer
	if code := runCommentsList(context.Background(), &buf, "t1"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	for _, want := range []string{"Great show", "Agreed", "Which encore?", "lost reply"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Index(out, "Great show") > strings.Index(out, "Agreed") {
		t.Error("expected replies after their top-level comment")
	}
}

func TestRunCommentReply_SendsParent(t *testing.T) {
	b := &commentBackend{}
	dir := useBackend(t, b.handler())
	seedTokens(t, dir)

	var buf bytes.Buffer
	code := runCommentReply(context.Background(), &buf, "t1", "c1", "  me too  ")
	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if len(b.posted) != 1 {
		t.Fatalf("expected one request, got %d", len(b.posted))
	}
	got := b.posted[0]
	if got.Content != "me too" || got.ParentID == nil || *got.ParentID != "c1" {
		t.Errorf("unexpected payload: %+v", got)
	}
	if !strings.Contains(buf.String(), "Replied to c1") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRunCommentReply_Empty(t *testing.T) {
	b := &commentBackend{}
	dir := useBackend(t, b.handler())
	seedTokens(t, dir)

	var buf bytes.Buffer
	if code := runCommentReply(context.Background(), &buf, "t1", "c1", "   "); code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
	if len(b.posted) != 0 {
		t.Error("empty reply must not reach the backend")
	}
}

func TestRunCommentReply_ExpiredSession(t *testing.T) {
	b := &commentBackend{unauthed: true}
	dir := useBackend(t, b.handler())
	seedTokens(t, dir)

	var buf bytes.Buffer
	if code := runCommentReply(context.Background(), &buf, "t1", "c1", "hi"); code != exitLoginRequired {
		t.Errorf("expected exit code %d, got %d", exitLoginRequired, code)
	}
	if storedTokens(dir).Present() {
		t.Error("expected a 401 to clear the stored session")
	}
}

func TestRunCommentAdd(t *testing.T) {
	b := &commentBackend{}
	dir := useBackend(t, b.handler())
	seedTokens(t, dir)

	var buf bytes.Buffer
	if code := runCommentAdd(context.Background(), &buf, "t1", "first!"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if len(b.posted) != 1 || b.posted[0].ParentID != nil {
		t.Errorf("expected a top-level comment, got %+v", b.posted)
	}
}

func TestRunCommentDelete(t *testing.T) {
	b := &commentBackend{}
	dir := useBackend(t, b.handler())
	seedTokens(t, dir)

	// Without --yes and without a terminal the confirmation answers no
	var buf bytes.Buffer
	if code := runCommentDelete(context.Background(), &buf, "c2"); code != exitFailed {
		t.Errorf("expected exit code %d, got %d: %s", exitFailed, code, buf.String())
	}
	if len(b.deleted) != 0 {
		t.Fatal("aborted delete must not reach the backend")
	}

	assumeYes = true
	buf.Reset()
	if code := runCommentDelete(context.Background(), &buf, "c2"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if len(b.deleted) != 1 || b.deleted[0] != "c2" {
		t.Errorf("unexpected deletes: %v", b.deleted)
	}
}

func TestRunReact(t *testing.T) {
	b := &commentBackend{}
	dir := useBackend(t, b.handler())

	var buf bytes.Buffer
	if code := runReact(context.Background(), &buf, "t1", "love"); code != exitError {
		t.Errorf("expected exit code %d for an unknown reaction, got %d", exitError, code)
	}

	seedTokens(t, dir)
	buf.Reset()
	if code := runReact(context.Background(), &buf, "t1", "like"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Likes: 4  Dislikes: 1  Yours: like") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRunStatus(t *testing.T) {
	b := &commentBackend{}
	dir := useBackend(t, b.handler())

	var buf bytes.Buffer
	if code := runStatus(context.Background(), &buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "not logged in") || !strings.Contains(buf.String(), "Boards:   2") {
		t.Errorf("unexpected guest status: %q", buf.String())
	}

	seedTokens(t, dir)
	jsonOutput = true
	buf.Reset()
	if code := runStatus(context.Background(), &buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	var out statusOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !out.LoggedIn || out.Username != "mina" || out.Unread == nil || *out.Unread != 5 {
		t.Errorf("unexpected status: %+v", out)
	}
}

func TestRunStatus_Unreachable(t *testing.T) {
	useBackend(t, http.NotFoundHandler())
	apiURL = "http://127.0.0.1:1"

	var buf bytes.Buffer
	if code := runStatus(context.Background(), &buf); code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
}

func TestFormatStatusHuman(t *testing.T) {
	unread := int64(3)
	out := formatStatusHuman(statusOutput{
		Backend:  "http://localhost:8080",
		LoggedIn: true,
		Username: "mina",
		Roles:    []string{"ADMIN"},
		Unread:   &unread,
		Boards:   4,
	})
	for _, want := range []string{"http://localhost:8080", "mina (ADMIN)", "Boards:   4", "Unread:   3"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}
