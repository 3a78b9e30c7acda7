// ABOUTME: Thread list screen for one board with search, tag filter and paging
// ABOUTME: Query changes are emitted as QueryMsg; the app reloads the page

package threads

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/pages"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/icons"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/styles"
)

// OpenMsg is sent when a thread is opened
type OpenMsg struct {
	ThreadID string
}

// QueryMsg asks the app to load the board with a new query
type QueryMsg struct {
	BoardID string
	Query   client.ThreadQuery
}

// CancelledMsg is sent when the user goes back to the board list
type CancelledMsg struct{}

// Threads is the thread list model
type Threads struct {
	boardID   string
	boardName string
	threads   []client.Thread
	total     int64
	query     client.ThreadQuery
	cursor    int
	loading   bool
	err       string
	search    textinput.Model
	searching bool
	pager     paginator.Model
	now       func() time.Time
}

// New creates the list for boardID with the given page size
func New(boardID, boardName string, pageSize int) *Threads {
	ti := textinput.New()
	ti.Placeholder = "search titles"
	ti.Prompt = icons.Search.String() + " "
	ti.CharLimit = 100

	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = pageSize
	p.TotalPages = 1

	return &Threads{
		boardID:   boardID,
		boardName: boardName,
		query:     client.ThreadQuery{PageQuery: client.PageQuery{Size: pageSize}},
		loading:   true,
		search:    ti,
		pager:     p,
		now:       time.Now,
	}
}

// BoardID returns the board being listed
func (t *Threads) BoardID() string {
	return t.boardID
}

// Query returns the query of the page being shown or requested
func (t *Threads) Query() client.ThreadQuery {
	return t.query
}

// SetView applies a loaded board page
func (t *Threads) SetView(view *pages.BoardView) {
	t.loading = false
	t.err = ""
	if view.Board != nil && view.Board.Name != "" {
		t.boardName = view.Board.Name
	}
	t.query = view.Query
	t.threads = nil
	t.total = 0
	t.pager.Page = 0
	t.pager.TotalPages = 1
	if view.Threads != nil {
		t.threads = view.Threads.Content
		t.total = view.Threads.TotalElements
		t.pager.Page = view.Threads.Number
		if view.Threads.TotalPages > 0 {
			t.pager.TotalPages = view.Threads.TotalPages
		}
	}
	if t.cursor >= len(t.threads) {
		t.cursor = 0
	}
}

// SetError shows a load failure
func (t *Threads) SetError(msg string) {
	t.loading = false
	t.err = msg
}

// Searching reports whether the search box has focus
func (t *Threads) Searching() bool {
	return t.searching
}

// Init implements tea.Model
func (t *Threads) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (t *Threads) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if t.searching {
			var cmd tea.Cmd
			t.search, cmd = t.search.Update(msg)
			return t, cmd
		}
		return t, nil
	}

	if t.searching {
		return t.updateSearch(keyMsg)
	}

	switch keyMsg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
		return t, nil
	case "down", "j":
		if t.cursor < len(t.threads)-1 {
			t.cursor++
		}
		return t, nil
	case "enter":
		if len(t.threads) == 0 {
			return t, nil
		}
		id := t.threads[t.cursor].ID
		return t, func() tea.Msg { return OpenMsg{ThreadID: id} }
	case "/":
		t.searching = true
		t.search.SetValue(t.query.Search)
		return t, t.search.Focus()
	case "t":
		if len(t.threads) == 0 || len(t.threads[t.cursor].Tags) == 0 {
			return t, nil
		}
		q := t.query
		q.Tag = t.threads[t.cursor].Tags[0]
		q.Page = 0
		return t, t.requery(q)
	case "c":
		if t.query.Tag == "" && t.query.Search == "" {
			return t, nil
		}
		q := t.query
		q.Tag, q.Search, q.Page = "", "", 0
		return t, t.requery(q)
	case "r":
		return t, t.requery(t.query)
	case "esc", "b":
		return t, func() tea.Msg { return CancelledMsg{} }
	}

	before := t.pager.Page
	t.pager, _ = t.pager.Update(keyMsg)
	if t.pager.Page != before {
		q := t.query
		q.Page = t.pager.Page
		return t, t.requery(q)
	}
	return t, nil
}

func (t *Threads) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		t.searching = false
		t.search.Blur()
		q := t.query
		q.Search = strings.TrimSpace(t.search.Value())
		q.Page = 0
		return t, t.requery(q)
	case "esc":
		t.searching = false
		t.search.Blur()
		return t, nil
	}
	var cmd tea.Cmd
	t.search, cmd = t.search.Update(msg)
	return t, cmd
}

func (t *Threads) requery(q client.ThreadQuery) tea.Cmd {
	t.query = q
	t.loading = true
	boardID := t.boardID
	return func() tea.Msg { return QueryMsg{BoardID: boardID, Query: q} }
}

// View implements tea.Model
func (t *Threads) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s %s", icons.Board.String(), t.boardName)))
	sb.WriteString("\n")

	if t.searching {
		sb.WriteString(t.search.View())
		sb.WriteString("\n\n")
	} else if filters := t.filterLine(); filters != "" {
		sb.WriteString(styles.Dim.Render(filters))
		sb.WriteString("\n\n")
	}

	switch {
	case t.err != "":
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + t.err))
		sb.WriteString("\n")
	case t.loading && len(t.threads) == 0:
		sb.WriteString(styles.Dim.Render("Loading threads..."))
		sb.WriteString("\n")
	case len(t.threads) == 0:
		sb.WriteString(styles.Dim.Render("No threads match."))
		sb.WriteString("\n")
	}

	for i, th := range t.threads {
		title := th.Title
		if i == t.cursor {
			title = styles.Selected.Render(title)
		}
		sb.WriteString(styles.Cursor(i == t.cursor))
		sb.WriteString(title)
		meta := fmt.Sprintf("  %s %d  ♥ %d  %s", icons.Comment.String(), th.CommentCount, th.LikeCount, t.ago(th.CreatedAt))
		if th.AuthorName != "" {
			meta += "  by " + th.AuthorName
		}
		sb.WriteString(styles.Dim.Render(meta))
		if len(th.Tags) > 0 {
			sb.WriteString(" ")
			sb.WriteString(styles.KeyStyle.Render("#" + strings.Join(th.Tags, " #")))
		}
		sb.WriteString("\n")
	}

	if t.pager.TotalPages > 1 {
		sb.WriteString("\n")
		sb.WriteString(styles.Dim.Render(fmt.Sprintf("Page %s  (%s threads)", t.pager.View(), humanize.Comma(t.total))))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Threads) filterLine() string {
	var parts []string
	if t.query.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", t.query.Search))
	}
	if t.query.Tag != "" {
		parts = append(parts, icons.Tag.String()+" "+t.query.Tag)
	}
	if len(parts) == 0 {
		return ""
	}
	return "Filtered by " + strings.Join(parts, ", ") + "  (c to clear)"
}

func (t *Threads) ago(ts client.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return humanize.RelTime(ts.Time, t.now(), "ago", "from now")
}
