// ABOUTME: Tests for the thread detail screen
// ABOUTME: Covers comment grouping, reply composition, submission and moderator deletion

package thread

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/commenttree"
	"github.com/chikadol/rev-frontend-sub000/internal/pages"
)

type replyCall struct {
	parentID string
	content  string
}

type fakeBackend struct {
	mu       sync.Mutex
	replies  []replyCall
	deleted  []string
	replyErr error
	// gate holds replies until closed
	gate chan struct{}
}

func (f *fakeBackend) reply(_ context.Context, parentID, content string) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, replyCall{parentID, content})
	return f.replyErr
}

func (f *fakeBackend) delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func strPtr(s string) *string { return &s }

func sampleView() *pages.ThreadView {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	v := &pages.ThreadView{
		Thread: &client.Thread{ID: "t1", Title: "Encore setlist", Content: "What did they play?", AuthorName: "mina", ViewCount: 1500, Tags: []string{"live"}},
		Comments: []client.Comment{
			{ID: "c1", Content: "Top one", AuthorName: "jae", CreatedAt: client.Timestamp{Time: now.Add(-time.Hour)}},
			{ID: "c2", Content: "Reply to top", AuthorName: "sol", ParentID: strPtr("c1")},
			{ID: "c3", Content: "Nested reply", AuthorName: "ara", ParentID: strPtr("c2")},
			{ID: "c4", Content: "Second top", AuthorName: "min"},
			{ID: "c5", Content: "Lost reply", ParentID: strPtr("gone")},
		},
		Bookmarks: 7,
	}
	v.Regroup()
	return v
}

func newThread(t *testing.T, backend *fakeBackend, moderator bool) *Thread {
	t.Helper()
	p := commenttree.NewPresenter(backend.reply, commenttree.WithDeleter(backend.delete))
	m := New(context.Background(), "t1", p)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	m.SetSize(100, 60)
	m.SetViewer(true, moderator)
	m.SetView(sampleView())
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Thread, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestThreadRowsFlattenToTwoLevels(t *testing.T) {
	m := newThread(t, &fakeBackend{}, false)

	var ids []string
	for _, r := range m.rows {
		ids = append(ids, r.comment.ID)
	}
	assert.Equal(t, []string{"c1", "c2", "c3", "c4", "c5"}, ids)
	assert.False(t, m.rows[0].reply)
	assert.True(t, m.rows[2].reply, "nested reply shows under its top-level ancestor")
	assert.True(t, m.rows[4].orphan)
}

func TestThreadViewRendersHeaderAndComments(t *testing.T) {
	m := newThread(t, &fakeBackend{}, false)
	view := m.View()

	assert.Contains(t, view, "Encore setlist")
	assert.Contains(t, view, "1,500 views")
	assert.Contains(t, view, "7 bookmarks")
	assert.Contains(t, view, "#live")
	assert.Contains(t, view, "1 hour ago")
	assert.Contains(t, view, "@sol", "nested reply names who it answers")
	assert.Contains(t, view, "Detached replies")
}

func TestThreadLoadingAndError(t *testing.T) {
	p := commenttree.NewPresenter((&fakeBackend{}).reply)
	m := New(context.Background(), "t1", p)
	assert.Contains(t, m.View(), "Loading thread")

	m.SetError("thread not found")
	assert.Contains(t, m.View(), "thread not found")
}

func TestThreadReplySubmit(t *testing.T) {
	backend := &fakeBackend{}
	m := newThread(t, backend, false)

	m.Update(key("r"))
	keyID, open := m.Composing()
	require.True(t, open)
	assert.Equal(t, "c1", keyID)
	assert.True(t, m.Presenter().IsOpen("c1"))

	typeText(m, "  same here  ")
	_, cmd := m.Update(key("ctrl+s"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(SubmittedMsg)
	require.True(t, ok)
	assert.NoError(t, msg.Err)
	assert.Equal(t, "c1", msg.ParentID)
	require.Len(t, backend.replies, 1)
	assert.Equal(t, replyCall{"c1", "same here"}, backend.replies[0])

	m.Submitted(msg)
	_, open = m.Composing()
	assert.False(t, open)
	assert.False(t, m.Presenter().IsOpen("c1"))
	assert.False(t, m.Presenter().HasDraft("c1"), "draft is cleared after success")
}

func TestThreadReplyFailureKeepsDraft(t *testing.T) {
	backend := &fakeBackend{replyErr: errors.New("rate limited")}
	m := newThread(t, backend, false)

	m.Update(key("r"))
	typeText(m, "hello")
	_, cmd := m.Update(key("ctrl+s"))
	require.NotNil(t, cmd)
	msg := cmd().(SubmittedMsg)
	require.Error(t, msg.Err)

	m.Submitted(msg)
	_, open := m.Composing()
	assert.True(t, open, "composer stays open for retry")
	assert.Equal(t, "hello", m.Presenter().Draft("c1"))
	assert.Contains(t, m.View(), "rate limited")
}

func TestThreadComposerLockedWhileSending(t *testing.T) {
	backend := &fakeBackend{gate: make(chan struct{})}
	m := newThread(t, backend, false)

	m.Update(key("r"))
	typeText(m, "first")
	_, cmd := m.Update(key("ctrl+s"))
	require.NotNil(t, cmd)

	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()
	require.Eventually(t, func() bool { return m.Presenter().Submitting("c1") }, time.Second, 5*time.Millisecond)

	typeText(m, " and more")
	assert.Equal(t, "first", m.input.Value(), "typing is ignored while the reply is in flight")

	close(backend.gate)
	msg := (<-result).(SubmittedMsg)
	require.NoError(t, msg.Err)
	m.Submitted(msg)

	assert.Equal(t, []replyCall{{"c1", "first"}}, backend.replies)
	_, open := m.Composing()
	assert.False(t, open)
	assert.False(t, m.Presenter().HasDraft("c1"))
}

func TestThreadSubmittedKeepsComposerWithNewDraft(t *testing.T) {
	m := newThread(t, &fakeBackend{}, false)

	m.Update(key("r"))
	m.Presenter().SetDraft("c1", "follow-up")
	m.Submitted(SubmittedMsg{ThreadID: "t1", ParentID: "c1"})

	keyID, open := m.Composing()
	assert.True(t, open, "a draft that survived the submit stays in the box")
	assert.Equal(t, "c1", keyID)
}

func TestThreadEmptyReplyNotSent(t *testing.T) {
	backend := &fakeBackend{}
	m := newThread(t, backend, false)

	m.Update(key("r"))
	typeText(m, "   ")
	_, cmd := m.Update(key("ctrl+s"))
	assert.Nil(t, cmd)
	assert.Empty(t, backend.replies)
}

func TestThreadEscKeepsDraft(t *testing.T) {
	m := newThread(t, &fakeBackend{}, false)

	m.Update(key("r"))
	typeText(m, "later")
	m.Update(key("esc"))

	_, open := m.Composing()
	assert.False(t, open)
	assert.False(t, m.Presenter().IsOpen("c1"))
	assert.Equal(t, "later", m.Presenter().Draft("c1"))

	// reopening restores the draft
	m.Update(key("r"))
	assert.Equal(t, "later", m.input.Value())
}

func TestThreadNewTopLevelComment(t *testing.T) {
	backend := &fakeBackend{}
	m := newThread(t, backend, false)

	m.Update(key("a"))
	keyID, open := m.Composing()
	require.True(t, open)
	assert.Equal(t, NewCommentKey, keyID)

	typeText(m, "first!")
	_, cmd := m.Update(key("ctrl+s"))
	require.NotNil(t, cmd)
	cmd()
	require.Len(t, backend.replies, 1)
	assert.Equal(t, "", backend.replies[0].parentID)
}

func TestThreadGuestCannotCompose(t *testing.T) {
	m := newThread(t, &fakeBackend{}, false)
	m.SetViewer(false, false)

	_, cmd := m.Update(key("r"))
	assert.Nil(t, cmd)
	_, open := m.Composing()
	assert.False(t, open)
	assert.Contains(t, m.View(), "Log in to comment")

	_, cmd = m.Update(key("+"))
	assert.Nil(t, cmd)
}

func TestThreadDeleteRequiresModerator(t *testing.T) {
	m := newThread(t, &fakeBackend{}, false)
	m.Update(key("d"))
	assert.Empty(t, m.ConfirmingDelete())
	assert.Contains(t, m.View(), "Only moderators")
}

func TestThreadModeratorDelete(t *testing.T) {
	backend := &fakeBackend{}
	m := newThread(t, backend, true)

	m.Update(key("j"))
	m.Update(key("d"))
	require.Equal(t, "c2", m.ConfirmingDelete())
	assert.Contains(t, m.View(), "Delete this comment?")

	_, cmd := m.Update(key("y"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(DeletedMsg)
	require.True(t, ok)
	assert.True(t, msg.Deleted)
	assert.Equal(t, []string{"c2"}, backend.deleted)

	m.Deleted(msg)
	for _, c := range m.Page().Comments {
		assert.NotEqual(t, "c2", c.ID)
	}
	assert.Len(t, m.Page().Comments, 4)
}

func TestThreadDeleteDeclined(t *testing.T) {
	backend := &fakeBackend{}
	m := newThread(t, backend, true)

	m.Update(key("d"))
	_, cmd := m.Update(key("n"))
	assert.Nil(t, cmd)
	assert.Empty(t, m.ConfirmingDelete())
	assert.Empty(t, backend.deleted)
}

func TestThreadReactionsAndBookmark(t *testing.T) {
	m := newThread(t, &fakeBackend{}, false)

	_, cmd := m.Update(key("+"))
	require.NotNil(t, cmd)
	react := cmd().(ReactMsg)
	assert.Equal(t, client.ReactionLike, react.Reaction)

	m.SetReaction(&client.ReactionState{LikeCount: 5, DislikeCount: 1})
	assert.Contains(t, m.View(), "♥ 5")

	_, cmd = m.Update(key("m"))
	require.NotNil(t, cmd)
	_, ok := cmd().(BookmarkMsg)
	assert.True(t, ok)

	m.SetBookmark(&client.BookmarkState{Bookmarked: true, Count: 8})
	assert.Contains(t, m.View(), "8 bookmarks")
}

func TestThreadBack(t *testing.T) {
	m := newThread(t, &fakeBackend{}, false)
	_, cmd := m.Update(key("esc"))
	require.NotNil(t, cmd)
	_, ok := cmd().(CancelledMsg)
	assert.True(t, ok)
}
