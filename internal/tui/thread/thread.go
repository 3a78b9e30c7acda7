// ABOUTME: Thread detail screen with its two-level comment tree
// ABOUTME: Reply boxes, submission and moderator deletion go through a commenttree.Presenter

package thread

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/commenttree"
	"github.com/chikadol/rev-frontend-sub000/internal/pages"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/icons"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/styles"
)

// NewCommentKey is the presenter key of the top-level comment composer
const NewCommentKey = ""

// SubmittedMsg reports the end of a reply submission
type SubmittedMsg struct {
	ThreadID string
	ParentID string
	Err      error
}

// DeletedMsg reports the end of a deletion
type DeletedMsg struct {
	ThreadID  string
	CommentID string
	Deleted   bool
	Err       error
}

// ReactMsg asks the app to toggle a reaction on the thread
type ReactMsg struct {
	ThreadID string
	Reaction client.ReactionType
}

// BookmarkMsg asks the app to toggle the thread bookmark
type BookmarkMsg struct {
	ThreadID string
}

// RefreshMsg asks the app to reload the thread
type RefreshMsg struct {
	ThreadID string
}

// CancelledMsg is sent when the user goes back to the thread list
type CancelledMsg struct{}

type row struct {
	comment client.Comment
	reply   bool
	orphan  bool
}

// Thread is the thread detail model
type Thread struct {
	ctx       context.Context
	threadID  string
	view      *pages.ThreadView
	presenter *commenttree.Presenter
	rows      []row
	cursor    int
	offset    int

	loading       bool
	err           string
	status        string
	authenticated bool

	composing     string
	composerOpen  bool
	input         textarea.Model
	confirmDelete string

	width  int
	height int
	now    func() time.Time
}

// New creates the screen for threadID. The presenter carries the reply and
// delete handlers; ctx bounds their calls.
func New(ctx context.Context, threadID string, presenter *commenttree.Presenter) *Thread {
	ta := textarea.New()
	ta.Placeholder = "Write a reply..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(3)

	return &Thread{
		ctx:       ctx,
		threadID:  threadID,
		presenter: presenter,
		loading:   true,
		input:     ta,
		width:     80,
		height:    24,
		now:       time.Now,
	}
}

// ThreadID returns the thread being shown
func (t *Thread) ThreadID() string {
	return t.threadID
}

// Page returns the loaded page, nil while loading
func (t *Thread) Page() *pages.ThreadView {
	return t.view
}

// Presenter returns the reply presenter
func (t *Thread) Presenter() *commenttree.Presenter {
	return t.presenter
}

// SetViewer updates what the viewer may do
func (t *Thread) SetViewer(authenticated, moderator bool) {
	t.authenticated = authenticated
	t.presenter.SetModerator(moderator)
}

// SetSize sets the available content area
func (t *Thread) SetSize(width, height int) {
	t.width = width
	t.height = height
	if width > 8 {
		t.input.SetWidth(width - 8)
	}
}

// SetView applies a loaded thread page
func (t *Thread) SetView(view *pages.ThreadView) {
	t.view = view
	t.loading = false
	t.err = ""
	t.rebuild()
}

// SetError shows a load failure
func (t *Thread) SetError(msg string) {
	t.loading = false
	t.err = msg
}

// SetStatus shows a transient one-line message
func (t *Thread) SetStatus(msg string) {
	t.status = msg
}

// SetReaction applies a reaction toggle result
func (t *Thread) SetReaction(state *client.ReactionState) {
	if t.view == nil || t.view.Thread == nil || state == nil {
		return
	}
	t.view.Thread.LikeCount = state.LikeCount
	t.view.Thread.DislikeCount = state.DislikeCount
}

// SetBookmark applies a bookmark toggle result
func (t *Thread) SetBookmark(state *client.BookmarkState) {
	if t.view == nil || state == nil {
		return
	}
	t.view.Bookmarks = state.Count
	if state.Bookmarked {
		t.status = "Bookmarked"
	} else {
		t.status = "Bookmark removed"
	}
}

// Composing returns the presenter key of the focused reply box
func (t *Thread) Composing() (string, bool) {
	return t.composing, t.composerOpen
}

// ConfirmingDelete returns the comment awaiting delete confirmation
func (t *Thread) ConfirmingDelete() string {
	return t.confirmDelete
}

// Submitted applies the result of a reply submission
func (t *Thread) Submitted(msg SubmittedMsg) {
	if msg.Err != nil {
		t.status = ""
		return
	}
	if t.composerOpen && t.composing == msg.ParentID && !t.presenter.HasDraft(msg.ParentID) {
		t.resetComposer()
	}
	t.status = "Reply posted"
}

// Deleted applies the result of a deletion
func (t *Thread) Deleted(msg DeletedMsg) {
	if msg.Err != nil {
		t.status = "Delete failed: " + msg.Err.Error()
		return
	}
	if !msg.Deleted || t.view == nil {
		return
	}
	t.view.Comments = commenttree.RemoveComment(t.view.Comments, msg.CommentID)
	t.view.Regroup()
	t.rebuild()
	t.status = "Comment deleted"
}

// rebuild flattens the tree into display rows: each top-level comment
// followed by its replies, then orphans.
func (t *Thread) rebuild() {
	t.rows = nil
	if t.view == nil || t.view.Tree == nil {
		return
	}
	tree := t.view.Tree
	for _, top := range tree.TopLevel() {
		t.rows = append(t.rows, row{comment: top})
		for _, r := range tree.RepliesOf(top.ID) {
			t.rows = append(t.rows, row{comment: r, reply: true})
		}
	}
	for _, o := range tree.Orphans() {
		t.rows = append(t.rows, row{comment: o, reply: true, orphan: true})
	}
	if t.cursor >= len(t.rows) {
		t.cursor = max(len(t.rows)-1, 0)
	}
}

func (t *Thread) selected() (client.Comment, bool) {
	if len(t.rows) == 0 {
		return client.Comment{}, false
	}
	return t.rows[t.cursor].comment, true
}

// Init implements tea.Model
func (t *Thread) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (t *Thread) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if t.composerOpen {
			var cmd tea.Cmd
			t.input, cmd = t.input.Update(msg)
			return t, cmd
		}
		return t, nil
	}

	if t.confirmDelete != "" {
		return t.updateConfirm(keyMsg)
	}
	if t.composerOpen {
		return t.updateComposer(keyMsg)
	}

	t.status = ""
	switch keyMsg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(t.rows)-1 {
			t.cursor++
		}
	case "r":
		c, ok := t.selected()
		if !ok {
			return t, nil
		}
		return t, t.toggleComposer(c.ID)
	case "a":
		if t.view == nil {
			return t, nil
		}
		return t, t.toggleComposer(NewCommentKey)
	case "d":
		c, ok := t.selected()
		if !ok {
			return t, nil
		}
		if !t.presenter.Moderator() {
			t.status = "Only moderators can delete comments"
			return t, nil
		}
		t.confirmDelete = c.ID
	case "+":
		return t, t.emit(ReactMsg{ThreadID: t.threadID, Reaction: client.ReactionLike})
	case "-":
		return t, t.emit(ReactMsg{ThreadID: t.threadID, Reaction: client.ReactionDislike})
	case "m":
		return t, t.emit(BookmarkMsg{ThreadID: t.threadID})
	case "ctrl+r", "R":
		t.loading = true
		id := t.threadID
		return t, func() tea.Msg { return RefreshMsg{ThreadID: id} }
	case "esc", "b":
		return t, func() tea.Msg { return CancelledMsg{} }
	}
	return t, nil
}

// emit sends msg when the viewer is logged in
func (t *Thread) emit(msg tea.Msg) tea.Cmd {
	if !t.authenticated {
		t.status = "Log in to react or bookmark"
		return nil
	}
	return func() tea.Msg { return msg }
}

// toggleComposer opens the reply box for key with its saved draft, or
// closes it when already open
func (t *Thread) toggleComposer(key string) tea.Cmd {
	if !t.authenticated {
		t.status = "Log in to comment"
		return nil
	}
	if !t.presenter.ToggleReply(key) {
		return nil
	}
	t.composing = key
	t.composerOpen = true
	t.input.SetValue(t.presenter.Draft(key))
	return t.input.Focus()
}

// closeComposer keeps the draft and closes the box
func (t *Thread) closeComposer() {
	if t.composerOpen {
		if t.presenter.HasDraft(t.composing) || t.input.Value() != "" {
			t.presenter.SetDraft(t.composing, t.input.Value())
		}
		if t.presenter.IsOpen(t.composing) {
			t.presenter.ToggleReply(t.composing)
		}
	}
	t.resetComposer()
}

func (t *Thread) resetComposer() {
	t.composing = ""
	t.composerOpen = false
	t.input.Blur()
	t.input.Reset()
}

func (t *Thread) updateComposer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		key := t.composing
		t.presenter.SetDraft(key, t.input.Value())
		if t.presenter.Submitting(key) {
			return t, nil
		}
		if strings.TrimSpace(t.input.Value()) == "" {
			t.status = "Reply is empty"
			return t, nil
		}
		t.status = "Sending..."
		return t, t.submit(key)
	case "esc":
		t.closeComposer()
		return t, nil
	}
	// The box is read-only until the backend answers
	if t.presenter.Submitting(t.composing) {
		return t, nil
	}
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t, cmd
}

func (t *Thread) submit(parentID string) tea.Cmd {
	ctx, threadID, p := t.ctx, t.threadID, t.presenter
	return func() tea.Msg {
		err := p.Submit(ctx, parentID)
		return SubmittedMsg{ThreadID: threadID, ParentID: parentID, Err: err}
	}
}

func (t *Thread) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := t.confirmDelete
	switch msg.String() {
	case "y", "Y":
		t.confirmDelete = ""
		t.status = "Deleting..."
		ctx, threadID, p := t.ctx, t.threadID, t.presenter
		return t, func() tea.Msg {
			deleted, err := p.Delete(ctx, id)
			return DeletedMsg{ThreadID: threadID, CommentID: id, Deleted: deleted, Err: err}
		}
	case "n", "N", "esc":
		t.confirmDelete = ""
	}
	return t, nil
}

// View implements tea.Model
func (t *Thread) View() string {
	var sb strings.Builder

	if t.err != "" {
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + t.err))
		sb.WriteString("\n")
		return sb.String()
	}
	if t.view == nil || t.view.Thread == nil {
		sb.WriteString(styles.Dim.Render("Loading thread..."))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(t.renderHeader())
	if t.loading {
		sb.WriteString(styles.Dim.Render("Refreshing..."))
		sb.WriteString("\n")
	}

	if t.composerOpen && t.composing == NewCommentKey {
		sb.WriteString(t.renderComposer(NewCommentKey))
	}

	if len(t.rows) == 0 {
		sb.WriteString(styles.Dim.Render("No comments yet. Press a to write the first one."))
		sb.WriteString("\n")
	}

	start, end := t.window()
	if start > 0 {
		sb.WriteString(styles.Dim.Render(fmt.Sprintf("  ↑ %d more", start)))
		sb.WriteString("\n")
	}
	orphanHeader := false
	for i := start; i < end; i++ {
		r := t.rows[i]
		if r.orphan && !orphanHeader {
			sb.WriteString(styles.Subtitle.Render("Detached replies"))
			sb.WriteString("\n")
			orphanHeader = true
		}
		sb.WriteString(t.renderRow(i, r))
	}
	if end < len(t.rows) {
		sb.WriteString(styles.Dim.Render(fmt.Sprintf("  ↓ %d more", len(t.rows)-end)))
		sb.WriteString("\n")
	}

	if t.confirmDelete != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusWarning.Render(icons.Trash.String() + " Delete this comment? (y/n)"))
		sb.WriteString("\n")
	}
	if t.status != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.Dim.Render(t.status))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Thread) renderHeader() string {
	th := t.view.Thread
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Thread.String() + " " + th.Title))
	sb.WriteString("\n")

	meta := []string{}
	if th.AuthorName != "" {
		meta = append(meta, "by "+th.AuthorName)
	}
	if ago := t.ago(th.CreatedAt); ago != "" {
		meta = append(meta, ago)
	}
	meta = append(meta,
		fmt.Sprintf("%s views", humanize.Comma(th.ViewCount)),
		fmt.Sprintf("♥ %d  ✗ %d", th.LikeCount, th.DislikeCount),
		fmt.Sprintf("%d bookmarks", t.view.Bookmarks),
	)
	sb.WriteString(styles.Dim.Render(strings.Join(meta, " · ")))
	if len(th.Tags) > 0 {
		sb.WriteString("  ")
		sb.WriteString(styles.KeyStyle.Render("#" + strings.Join(th.Tags, " #")))
	}
	sb.WriteString("\n\n")
	sb.WriteString(th.Content)
	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s %d comments", icons.Comment.String(), len(t.view.Comments))))
	sb.WriteString("\n")
	return sb.String()
}

func (t *Thread) renderRow(i int, r row) string {
	c := r.comment
	var sb strings.Builder

	author := c.AuthorName
	if author == "" {
		author = "anonymous"
	}
	line := author
	if r.reply {
		if parent, ok := t.view.Tree.InReplyTo(c); ok && parent.AuthorName != "" {
			line = fmt.Sprintf("%s %s → @%s", icons.Reply.String(), author, parent.AuthorName)
		} else {
			line = icons.Reply.String() + " " + author
		}
	}
	if i == t.cursor {
		line = styles.Selected.Render(line)
	}
	if ago := t.ago(c.CreatedAt); ago != "" {
		line += styles.Dim.Render(" · " + ago)
	}

	body := line + "\n" + "  " + c.Content + "\n"
	if t.presenter.Submitting(c.ID) {
		body += styles.Dim.Render("  Sending reply...") + "\n"
	}
	if err := t.presenter.LastError(c.ID); err != nil {
		body += styles.ErrorText.Render("  "+icons.Critical.String()+" "+err.Error()) + "\n"
	}
	if t.presenter.IsOpen(c.ID) {
		if t.composerOpen && t.composing == c.ID {
			body += t.renderComposer(c.ID)
		} else if draft := t.presenter.Draft(c.ID); draft != "" {
			body += styles.Dim.Render("  Draft: "+truncate(draft, 40)) + "\n"
		}
	}

	if r.reply {
		body = styles.Reply.Render(strings.TrimRight(body, "\n")) + "\n"
	}
	sb.WriteString(styles.Cursor(i == t.cursor))
	sb.WriteString(body)
	return sb.String()
}

func (t *Thread) renderComposer(key string) string {
	var sb strings.Builder
	sb.WriteString(t.input.View())
	sb.WriteString("\n")
	if key == NewCommentKey {
		if err := t.presenter.LastError(NewCommentKey); err != nil {
			sb.WriteString(styles.ErrorText.Render(icons.Critical.String() + " " + err.Error()))
			sb.WriteString("\n")
		}
	}
	sb.WriteString(styles.Dim.Render("ctrl+s send · esc close (draft kept)"))
	sb.WriteString("\n")
	return sb.String()
}

// window picks the rows that fit, keeping the cursor visible
func (t *Thread) window() (int, int) {
	visible := (t.height - 12) / 3
	if visible < 3 {
		visible = 3
	}
	if visible >= len(t.rows) {
		return 0, len(t.rows)
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+visible {
		t.offset = t.cursor - visible + 1
	}
	if t.offset+visible > len(t.rows) {
		t.offset = len(t.rows) - visible
	}
	return t.offset, t.offset + visible
}

func (t *Thread) ago(ts client.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return humanize.RelTime(ts.Time, t.now(), "ago", "from now")
}

func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
