// ABOUTME: Board list screen
// ABOUTME: Shows every board with its thread count; enter opens the board's threads

package boards

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/icons"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/styles"
)

// SelectedMsg is sent when a board is opened
type SelectedMsg struct {
	Board client.Board
}

// RefreshMsg asks the app to reload the list
type RefreshMsg struct{}

// CancelledMsg is sent when the user goes back
type CancelledMsg struct{}

// Boards is the board list model
type Boards struct {
	boards  []client.Board
	cursor  int
	loading bool
	err     string
}

// New creates an empty list in the loading state
func New() *Boards {
	return &Boards{loading: true}
}

// SetBoards replaces the list
func (b *Boards) SetBoards(boards []client.Board) {
	b.boards = boards
	b.loading = false
	b.err = ""
	if b.cursor >= len(boards) {
		b.cursor = 0
	}
}

// SetError shows a load failure
func (b *Boards) SetError(msg string) {
	b.loading = false
	b.err = msg
}

// SetLoading marks the list as reloading
func (b *Boards) SetLoading() {
	b.loading = true
}

// Init implements tea.Model
func (b *Boards) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (b *Boards) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(b.boards)-1 {
			b.cursor++
		}
	case "enter":
		if len(b.boards) == 0 {
			return b, nil
		}
		board := b.boards[b.cursor]
		return b, func() tea.Msg { return SelectedMsg{Board: board} }
	case "r":
		return b, func() tea.Msg { return RefreshMsg{} }
	case "esc", "b":
		return b, func() tea.Msg { return CancelledMsg{} }
	}
	return b, nil
}

// View implements tea.Model
func (b *Boards) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Board.String() + " Boards"))
	sb.WriteString("\n")

	switch {
	case b.err != "":
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + b.err))
		sb.WriteString("\n")
	case b.loading && len(b.boards) == 0:
		sb.WriteString(styles.Dim.Render("Loading boards..."))
		sb.WriteString("\n")
	case len(b.boards) == 0:
		sb.WriteString(styles.Dim.Render("No boards yet."))
		sb.WriteString("\n")
	}

	for i, board := range b.boards {
		name := board.Name
		if i == b.cursor {
			name = styles.Selected.Render(name)
		}
		sb.WriteString(styles.Cursor(i == b.cursor))
		sb.WriteString(name)
		sb.WriteString(styles.Dim.Render(fmt.Sprintf("  %s threads", humanize.Comma(board.ThreadCount))))
		sb.WriteString("\n")
		if board.Description != "" {
			sb.WriteString("    ")
			sb.WriteString(styles.Dim.Render(board.Description))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
