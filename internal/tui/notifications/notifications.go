// ABOUTME: Notification inbox screen
// ABOUTME: Lists notifications with unread markers; read state changes are emitted to the app

package notifications

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/pages"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/icons"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/styles"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/widgets"
)

// MarkReadMsg asks the app to mark one notification read
type MarkReadMsg struct {
	ID string
}

// MarkAllReadMsg asks the app to mark everything read
type MarkAllReadMsg struct{}

// OpenThreadMsg asks the app to open the thread a notification points at
type OpenThreadMsg struct {
	ThreadID string
}

// RefreshMsg asks the app to reload the inbox
type RefreshMsg struct{}

// CancelledMsg is sent when the user goes back
type CancelledMsg struct{}

// Notifications is the inbox model
type Notifications struct {
	items   []client.Notification
	unread  int64
	cursor  int
	loading bool
	err     string
	now     func() time.Time
}

// New creates an empty inbox in the loading state
func New() *Notifications {
	return &Notifications{loading: true, now: time.Now}
}

// SetView applies a loaded inbox page
func (n *Notifications) SetView(view *pages.InboxView) {
	n.loading = false
	n.err = ""
	n.items = nil
	if view.Notifications != nil {
		n.items = view.Notifications.Content
	}
	n.unread = view.Unread
	if n.cursor >= len(n.items) {
		n.cursor = 0
	}
}

// SetError shows a load failure
func (n *Notifications) SetError(msg string) {
	n.loading = false
	n.err = msg
}

// Unread returns the unread total
func (n *Notifications) Unread() int64 {
	return n.unread
}

// MarkRead flags one entry read locally after the backend confirmed it
func (n *Notifications) MarkRead(id string) {
	for i := range n.items {
		if n.items[i].ID == id && !n.items[i].Read {
			n.items[i].Read = true
			if n.unread > 0 {
				n.unread--
			}
		}
	}
}

// MarkAllRead flags every entry read locally
func (n *Notifications) MarkAllRead() {
	for i := range n.items {
		n.items[i].Read = true
	}
	n.unread = 0
}

// Init implements tea.Model
func (n *Notifications) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (n *Notifications) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return n, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if n.cursor > 0 {
			n.cursor--
		}
	case "down", "j":
		if n.cursor < len(n.items)-1 {
			n.cursor++
		}
	case "enter":
		if len(n.items) == 0 {
			return n, nil
		}
		item := n.items[n.cursor]
		var cmds []tea.Cmd
		if !item.Read {
			cmds = append(cmds, func() tea.Msg { return MarkReadMsg{ID: item.ID} })
		}
		if item.ThreadID != "" {
			cmds = append(cmds, func() tea.Msg { return OpenThreadMsg{ThreadID: item.ThreadID} })
		}
		if len(cmds) == 0 {
			return n, nil
		}
		return n, tea.Sequence(cmds...)
	case " ", "x":
		if len(n.items) == 0 || n.items[n.cursor].Read {
			return n, nil
		}
		id := n.items[n.cursor].ID
		return n, func() tea.Msg { return MarkReadMsg{ID: id} }
	case "a":
		if n.unread == 0 {
			return n, nil
		}
		return n, func() tea.Msg { return MarkAllReadMsg{} }
	case "r":
		n.loading = true
		return n, func() tea.Msg { return RefreshMsg{} }
	case "esc", "b":
		return n, func() tea.Msg { return CancelledMsg{} }
	}
	return n, nil
}

// View implements tea.Model
func (n *Notifications) View() string {
	var sb strings.Builder
	title := icons.Bell.String() + " Notifications"
	sb.WriteString(styles.Title.Render(title))
	if n.unread > 0 {
		sb.WriteString(" ")
		sb.WriteString(widgets.UnreadBadge(n.unread))
	}
	sb.WriteString("\n")

	switch {
	case n.err != "":
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + n.err))
		sb.WriteString("\n")
	case n.loading && len(n.items) == 0:
		sb.WriteString(styles.Dim.Render("Loading notifications..."))
		sb.WriteString("\n")
	case len(n.items) == 0:
		sb.WriteString(styles.Dim.Render("You're all caught up."))
		sb.WriteString("\n")
	}

	for i, item := range n.items {
		marker := "  "
		if !item.Read {
			marker = styles.StatusWarning.Render("● ")
		}
		text := item.Message
		if i == n.cursor {
			text = styles.Selected.Render(text)
		} else if item.Read {
			text = styles.Dim.Render(text)
		}
		sb.WriteString(styles.Cursor(i == n.cursor))
		sb.WriteString(marker)
		sb.WriteString(text)
		if !item.CreatedAt.IsZero() {
			sb.WriteString(styles.Dim.Render(fmt.Sprintf("  %s", humanize.RelTime(item.CreatedAt.Time, n.now(), "ago", "from now"))))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
