// ABOUTME: Main menu shown after the session resolves
// ABOUTME: Lists the community areas; entries depend on whether the user is logged in

package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chikadol/rev-frontend-sub000/internal/tui/icons"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/styles"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/widgets"
)

// Action is a menu choice
type Action int

const (
	ActionBoards Action = iota
	ActionNotifications
	ActionLogin
	ActionLogout
	ActionQuit
)

// String returns the string representation of an Action
func (a Action) String() string {
	switch a {
	case ActionBoards:
		return "boards"
	case ActionNotifications:
		return "notifications"
	case ActionLogin:
		return "login"
	case ActionLogout:
		return "logout"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// SelectedMsg is sent when an entry is chosen
type SelectedMsg struct {
	Action Action
}

// CancelledMsg is sent when the menu is dismissed
type CancelledMsg struct{}

type option struct {
	label  string
	icon   icons.Icon
	action Action
}

// Menu represents the main menu
type Menu struct {
	options       []option
	cursor        int
	authenticated bool
	unread        int64
}

// New creates the menu for a guest or a logged-in user
func New(authenticated bool) *Menu {
	m := &Menu{}
	m.SetAuthenticated(authenticated)
	return m
}

// SetAuthenticated rebuilds the entries for the session state
func (m *Menu) SetAuthenticated(authenticated bool) {
	m.authenticated = authenticated
	m.options = []option{{label: "Boards", icon: icons.Board, action: ActionBoards}}
	if authenticated {
		m.options = append(m.options,
			option{label: "Notifications", icon: icons.Bell, action: ActionNotifications},
			option{label: "Log out", icon: icons.Lock, action: ActionLogout},
		)
	} else {
		m.options = append(m.options, option{label: "Log in", icon: icons.User, action: ActionLogin})
	}
	m.options = append(m.options, option{label: "Quit", icon: icons.Quit, action: ActionQuit})
	if m.cursor >= len(m.options) {
		m.cursor = len(m.options) - 1
	}
}

// SetUnread sets the count shown next to Notifications
func (m *Menu) SetUnread(n int64) {
	m.unread = n
}

// Selected returns the action under the cursor
func (m *Menu) Selected() Action {
	return m.options[m.cursor].action
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		action := m.Selected()
		return m, func() tea.Msg { return SelectedMsg{Action: action} }
	case "esc", "q":
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	return m, nil
}

// View implements tea.Model
func (m *Menu) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("RE-V Community"))
	sb.WriteString("\n")

	for i, opt := range m.options {
		line := fmt.Sprintf("%s %s", opt.icon.String(), opt.label)
		if i == m.cursor {
			line = styles.Selected.Render(line)
		}
		if opt.action == ActionNotifications && m.unread > 0 {
			line += " " + widgets.UnreadBadge(m.unread)
		}
		sb.WriteString(styles.Cursor(i == m.cursor))
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if !m.authenticated {
		sb.WriteString(styles.Help.Render("Browsing as guest. Log in to comment and receive notifications."))
	}
	return sb.String()
}
