// ABOUTME: Email/password login screen built on an embedded huh form
// ABOUTME: Emits SubmittedMsg with the credentials; the app performs the login

package login

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/chikadol/rev-frontend-sub000/internal/redirect"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/icons"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/styles"
)

// SubmittedMsg carries the entered credentials
type SubmittedMsg struct {
	Email    string
	Password string
}

// CancelledMsg is sent when the user leaves the login screen
type CancelledMsg struct{}

// Login is the login screen model
type Login struct {
	form     *huh.Form
	email    string
	password string
	err      string
	pending  bool
	apiURL   string
	width    int
}

// New creates the login screen. apiURL is used to list OAuth login links.
func New(apiURL string) *Login {
	l := &Login{apiURL: apiURL}
	l.form = l.createForm()
	return l
}

func (l *Login) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&l.email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("email is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password is required")
					}
					return nil
				}),
		).Title("Log in").
			Description("Sign in to comment, react and receive notifications"),
	).WithTheme(huh.ThemeBase()).WithShowHelp(false)
}

// SetError shows a login failure and resets the form for another attempt.
// The email is kept.
func (l *Login) SetError(msg string) tea.Cmd {
	l.err = msg
	l.pending = false
	l.password = ""
	l.form = l.createForm()
	return l.form.Init()
}

// SetNotice shows a message without resetting the form
func (l *Login) SetNotice(msg string) {
	l.err = msg
}

// Err returns the message currently shown
func (l *Login) Err() string {
	return l.err
}

// Pending reports whether a submission is awaiting the backend
func (l *Login) Pending() bool {
	return l.pending
}

// SetWidth sets the rendering width
func (l *Login) SetWidth(width int) {
	l.width = width
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return l, func() tea.Msg { return CancelledMsg{} }
	}
	if l.pending {
		return l, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.pending = true
		l.err = ""
		submitted := SubmittedMsg{Email: strings.TrimSpace(l.email), Password: l.password}
		return l, func() tea.Msg { return submitted }
	}
	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder

	if l.pending {
		sb.WriteString(styles.Dim.Render("Signing in as " + l.email + "..."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(l.form.View())
	}

	if l.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + l.err))
		sb.WriteString("\n")
	}

	if l.apiURL != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.Dim.Render("Social login (open in a browser, then run `rev oauth callback <url>`):"))
		sb.WriteString("\n")
		for _, p := range redirect.OAuthProviders {
			sb.WriteString(styles.Dim.Render("  " + p.Label() + ": " + redirect.LoginURL(l.apiURL, p)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
