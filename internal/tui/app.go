// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, session transitions and routes keyboard input to child screens

package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/commenttree"
	"github.com/chikadol/rev-frontend-sub000/internal/pages"
	"github.com/chikadol/rev-frontend-sub000/internal/reqgen"
	"github.com/chikadol/rev-frontend-sub000/internal/session"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/boards"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/icons"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/login"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/menu"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/notifications"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/styles"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/thread"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/threads"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/widgets"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenLogin
	ScreenMenu
	ScreenBoards
	ScreenThreads
	ScreenThread
	ScreenNotifications
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum frame width
	defaultPageSize  = 20
)

// Request generation keys; a newer load for the same key makes older responses stale
const (
	keyBoards = "boards"
	keyBoard  = "board"
	keyThread = "thread"
	keyInbox  = "inbox"
	keyUnread = "unread"
)

const sessionExpired = "Your session has expired. Please log in again."

// sessionResolvedMsg is sent when the persisted session has been checked
type sessionResolvedMsg struct {
	snap session.Snapshot
}

// loginResultMsg is sent when an email/password login completes
type loginResultMsg struct {
	snap session.Snapshot
	err  error
}

type boardsLoadedMsg struct {
	tok    reqgen.Token
	boards []client.Board
	err    error
}

type boardPageMsg struct {
	tok  reqgen.Token
	view *pages.BoardView
	err  error
}

type threadPageMsg struct {
	tok  reqgen.Token
	view *pages.ThreadView
	err  error
}

type inboxLoadedMsg struct {
	tok  reqgen.Token
	view *pages.InboxView
	err  error
}

type unreadCountMsg struct {
	tok   reqgen.Token
	count int64
	err   error
}

type reactionMsg struct {
	threadID string
	state    *client.ReactionState
	err      error
}

type bookmarkMsg struct {
	threadID string
	state    *client.BookmarkState
	err      error
}

type markedReadMsg struct {
	id  string
	all bool
	err error
}

// App is the root model for the TUI
type App struct {
	ctx     context.Context
	client  *client.Client
	session *session.Store
	gens    *reqgen.Tracker
	policy  pages.AuthPolicy
	logger  *slog.Logger

	screen     Screen
	width      int
	height     int
	snap       session.Snapshot
	unread     int64
	lastUpdate time.Time
	spinner    spinner.Model

	// Set by the logout hook; Update then initializes the fresh login form
	needLoginInit bool

	// Child screens
	loginScreen   *login.Login
	menuScreen    *menu.Menu
	boardsScreen  *boards.Boards
	threadsScreen *threads.Threads
	threadScreen  *thread.Thread
	inboxScreen   *notifications.Notifications
	threadReturn  Screen
}

// New creates a new TUI application. The session store's logout hook is
// taken over so that any logout returns to the login screen.
func New(ctx context.Context, apiClient *client.Client, store *session.Store) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	a := &App{
		ctx:        ctx,
		client:     apiClient,
		session:    store,
		gens:       reqgen.New(),
		policy:     pages.AuthPolicy{Session: store},
		logger:     slog.Default(),
		screen:     ScreenLoading,
		spinner:    sp,
		menuScreen: menu.New(false),
	}
	store.SetOnLogout(a.onLogout)
	return a
}

// onLogout runs synchronously inside Session.Logout
func (a *App) onLogout() {
	for _, key := range []string{keyBoards, keyBoard, keyThread, keyInbox, keyUnread} {
		a.gens.Invalidate(key)
	}
	a.client.ResetCache()
	a.snap = a.session.Snapshot()
	a.unread = 0
	a.menuScreen = menu.New(false)
	a.threadScreen = nil
	a.inboxScreen = nil
	a.loginScreen = login.New(a.client.BaseURL())
	a.screen = ScreenLogin
	a.needLoginInit = true
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.initSession())
}

func (a *App) initSession() tea.Cmd {
	ctx, store := a.ctx, a.session
	return func() tea.Msg {
		return sessionResolvedMsg{snap: store.Initialize(ctx)}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.update(msg)
	if a.needLoginInit && a.loginScreen != nil {
		a.needLoginInit = false
		cmd = tea.Batch(cmd, a.loginScreen.Init())
	}
	return model, cmd
}

func (a *App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.threadScreen != nil {
			a.threadScreen.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.loginScreen != nil {
			a.loginScreen.SetWidth(a.contentWidth())
			if a.screen == ScreenLogin {
				return a.forward(msg)
			}
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.forward(msg)

	case spinner.TickMsg:
		if a.screen != ScreenLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionResolvedMsg:
		a.snap = msg.snap
		if a.screen != ScreenLoading {
			return a, nil
		}
		if msg.snap.IsAuthenticated {
			return a.showMenu()
		}
		return a.showLogin()

	case loginResultMsg:
		return a.handleLoginResult(msg)

	// Login screen
	case login.SubmittedMsg:
		ctx, store := a.ctx, a.session
		return a, func() tea.Msg {
			snap, err := store.Login(ctx, msg.Email, msg.Password)
			return loginResultMsg{snap: snap, err: err}
		}
	case login.CancelledMsg:
		return a.showMenu()

	// Menu
	case menu.SelectedMsg:
		return a.handleMenu(msg)
	case menu.CancelledMsg:
		return a, tea.Quit

	// Boards
	case boards.SelectedMsg:
		a.threadsScreen = threads.New(msg.Board.ID, msg.Board.Name, defaultPageSize)
		a.screen = ScreenThreads
		return a, a.loadBoard(msg.Board.ID, a.threadsScreen.Query())
	case boards.RefreshMsg:
		a.boardsScreen.SetLoading()
		return a, a.loadBoards()
	case boards.CancelledMsg:
		return a.showMenu()
	case boardsLoadedMsg:
		if !a.current(msg.tok) || a.boardsScreen == nil {
			return a, nil
		}
		if msg.err != nil {
			if text := a.errorText(msg.err); text != "" && a.boardsScreen != nil {
				a.boardsScreen.SetError(text)
			}
			return a, nil
		}
		a.boardsScreen.SetBoards(msg.boards)
		a.lastUpdate = time.Now()
		return a, nil

	// Threads
	case threads.OpenMsg:
		return a.openThread(msg.ThreadID, ScreenThreads)
	case threads.QueryMsg:
		return a, a.loadBoard(msg.BoardID, msg.Query)
	case threads.CancelledMsg:
		a.screen = ScreenBoards
		a.threadsScreen = nil
		a.gens.Invalidate(keyBoard)
		return a, nil
	case boardPageMsg:
		if !a.current(msg.tok) || a.threadsScreen == nil {
			return a, nil
		}
		if msg.err != nil {
			if text := a.errorText(msg.err); text != "" && a.threadsScreen != nil {
				a.threadsScreen.SetError(text)
			}
			return a, nil
		}
		a.threadsScreen.SetView(msg.view)
		a.lastUpdate = time.Now()
		return a, nil

	// Thread
	case thread.RefreshMsg:
		return a, a.loadThread(msg.ThreadID)
	case thread.SubmittedMsg:
		if !a.onThread(msg.ThreadID) {
			return a, nil
		}
		if msg.Err != nil {
			if a.policy.HandleError(msg.Err) == pages.OutcomeLoginRequired {
				a.loginScreen.SetNotice(sessionExpired)
				return a, nil
			}
		}
		a.threadScreen.Submitted(msg)
		if msg.Err != nil {
			return a, nil
		}
		return a, a.loadThread(msg.ThreadID)
	case thread.DeletedMsg:
		if !a.onThread(msg.ThreadID) {
			return a, nil
		}
		if msg.Err != nil && a.policy.HandleError(msg.Err) == pages.OutcomeLoginRequired {
			a.loginScreen.SetNotice(sessionExpired)
			return a, nil
		}
		a.threadScreen.Deleted(msg)
		return a, nil
	case thread.ReactMsg:
		ctx, c := a.ctx, a.client
		return a, func() tea.Msg {
			state, err := c.ToggleReaction(ctx, msg.ThreadID, msg.Reaction)
			return reactionMsg{threadID: msg.ThreadID, state: state, err: err}
		}
	case thread.BookmarkMsg:
		ctx, c := a.ctx, a.client
		return a, func() tea.Msg {
			state, err := c.ToggleBookmark(ctx, msg.ThreadID)
			return bookmarkMsg{threadID: msg.ThreadID, state: state, err: err}
		}
	case thread.CancelledMsg:
		a.gens.Invalidate(keyThread)
		a.threadScreen = nil
		a.screen = a.threadReturn
		if a.screen == ScreenNotifications {
			return a, a.loadInbox()
		}
		return a, nil
	case threadPageMsg:
		if !a.current(msg.tok) || a.threadScreen == nil {
			return a, nil
		}
		if msg.err != nil {
			if text := a.errorText(msg.err); text != "" && a.threadScreen != nil {
				a.threadScreen.SetError(text)
			}
			return a, nil
		}
		a.threadScreen.SetView(msg.view)
		a.lastUpdate = time.Now()
		return a, nil
	case reactionMsg:
		if !a.onThread(msg.threadID) {
			return a, nil
		}
		if msg.err != nil {
			if text := a.errorText(msg.err); text != "" && a.threadScreen != nil {
				a.threadScreen.SetStatus(text)
			}
			return a, nil
		}
		a.threadScreen.SetReaction(msg.state)
		return a, nil
	case bookmarkMsg:
		if !a.onThread(msg.threadID) {
			return a, nil
		}
		if msg.err != nil {
			if text := a.errorText(msg.err); text != "" && a.threadScreen != nil {
				a.threadScreen.SetStatus(text)
			}
			return a, nil
		}
		a.threadScreen.SetBookmark(msg.state)
		return a, nil

	// Notifications
	case notifications.MarkReadMsg:
		ctx, c := a.ctx, a.client
		return a, func() tea.Msg {
			return markedReadMsg{id: msg.ID, err: c.MarkNotificationRead(ctx, msg.ID)}
		}
	case notifications.MarkAllReadMsg:
		ctx, c := a.ctx, a.client
		return a, func() tea.Msg {
			return markedReadMsg{all: true, err: c.MarkAllNotificationsRead(ctx)}
		}
	case notifications.OpenThreadMsg:
		return a.openThread(msg.ThreadID, ScreenNotifications)
	case notifications.RefreshMsg:
		return a, a.loadInbox()
	case notifications.CancelledMsg:
		a.inboxScreen = nil
		a.gens.Invalidate(keyInbox)
		return a.showMenu()
	case inboxLoadedMsg:
		if !a.current(msg.tok) || a.inboxScreen == nil {
			return a, nil
		}
		if msg.err != nil {
			if text := a.errorText(msg.err); text != "" && a.inboxScreen != nil {
				a.inboxScreen.SetError(text)
			}
			return a, nil
		}
		a.inboxScreen.SetView(msg.view)
		a.setUnread(msg.view.Unread)
		a.lastUpdate = time.Now()
		return a, nil
	case markedReadMsg:
		if msg.err != nil {
			text := a.errorText(msg.err)
			if a.inboxScreen != nil && text != "" {
				a.inboxScreen.SetError(text)
			}
			return a, nil
		}
		if a.inboxScreen != nil {
			if msg.all {
				a.inboxScreen.MarkAllRead()
			} else {
				a.inboxScreen.MarkRead(msg.id)
			}
			a.setUnread(a.inboxScreen.Unread())
		}
		return a, nil
	case unreadCountMsg:
		if !a.current(msg.tok) {
			return a, nil
		}
		if msg.err != nil {
			a.logger.Debug("Unread count unavailable", "error", msg.err)
			return a, nil
		}
		a.setUnread(msg.count)
		return a, nil

	default:
		// Forward unknown messages to the active screen (huh, textarea and
		// textinput internals such as cursor blink)
		return a.forward(msg)
	}
}

// forward routes msg to the active child screen
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		if a.loginScreen != nil {
			_, cmd = a.loginScreen.Update(msg)
		}
	case ScreenMenu:
		_, cmd = a.menuScreen.Update(msg)
	case ScreenBoards:
		if a.boardsScreen != nil {
			_, cmd = a.boardsScreen.Update(msg)
		}
	case ScreenThreads:
		if a.threadsScreen != nil {
			_, cmd = a.threadsScreen.Update(msg)
		}
	case ScreenThread:
		if a.threadScreen != nil {
			_, cmd = a.threadScreen.Update(msg)
		}
	case ScreenNotifications:
		if a.inboxScreen != nil {
			_, cmd = a.inboxScreen.Update(msg)
		}
	}
	return a, cmd
}

// current reports whether tok is still the latest request for its key
func (a *App) current(tok reqgen.Token) bool {
	if tok.Current() {
		return true
	}
	a.logger.Debug("Dropping stale response", "key", tok.Key())
	return false
}

func (a *App) onThread(threadID string) bool {
	return a.threadScreen != nil && a.threadScreen.ThreadID() == threadID
}

// errorText applies the auth policy: Unauthorized logs out (the hook moves
// to the login screen) and yields "", anything else yields its message.
func (a *App) errorText(err error) string {
	if a.policy.HandleError(err) == pages.OutcomeLoginRequired {
		if a.loginScreen != nil {
			a.loginScreen.SetNotice(sessionExpired)
		}
		return ""
	}
	var apiErr *client.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func (a *App) setUnread(n int64) {
	a.unread = n
	a.menuScreen.SetUnread(n)
}

func (a *App) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if a.loginScreen == nil {
		return a, nil
	}
	if msg.err != nil {
		var authErr *session.AuthenticationError
		text := msg.err.Error()
		if errors.As(msg.err, &authErr) && authErr.Message != "" {
			text = authErr.Message
		}
		return a, a.loginScreen.SetError(text)
	}
	a.snap = msg.snap
	a.loginScreen = nil
	return a.showMenu()
}

func (a *App) handleMenu(msg menu.SelectedMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case menu.ActionBoards:
		a.boardsScreen = boards.New()
		a.screen = ScreenBoards
		return a, a.loadBoards()
	case menu.ActionNotifications:
		a.inboxScreen = notifications.New()
		a.screen = ScreenNotifications
		return a, a.loadInbox()
	case menu.ActionLogin:
		return a.showLogin()
	case menu.ActionLogout:
		a.session.Logout()
		return a, nil
	case menu.ActionQuit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) showLogin() (tea.Model, tea.Cmd) {
	a.loginScreen = login.New(a.client.BaseURL())
	a.loginScreen.SetWidth(a.contentWidth())
	a.screen = ScreenLogin
	return a, a.loginScreen.Init()
}

func (a *App) showMenu() (tea.Model, tea.Cmd) {
	a.snap = a.session.Snapshot()
	a.menuScreen.SetAuthenticated(a.snap.IsAuthenticated)
	a.screen = ScreenMenu
	if a.snap.IsAuthenticated {
		return a, a.loadUnread()
	}
	return a, nil
}

func (a *App) openThread(threadID string, from Screen) (tea.Model, tea.Cmd) {
	c := a.client
	reply := func(ctx context.Context, parentID, content string) error {
		in := client.CommentInput{Content: content}
		if parentID != thread.NewCommentKey {
			in.ParentID = &parentID
		}
		_, err := c.CreateComment(ctx, threadID, in)
		return err
	}
	presenter := commenttree.NewPresenter(reply, commenttree.WithDeleter(c.DeleteComment))

	a.threadScreen = thread.New(a.ctx, threadID, presenter)
	a.threadScreen.SetViewer(a.snap.IsAuthenticated, a.snap.User.IsAdmin())
	a.threadScreen.SetSize(a.contentWidth(), a.contentHeight())
	a.threadReturn = from
	a.screen = ScreenThread
	return a, a.loadThread(threadID)
}

func (a *App) loadBoards() tea.Cmd {
	tok := a.gens.Begin(keyBoards)
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		list, err := c.ListBoards(ctx)
		return boardsLoadedMsg{tok: tok, boards: list, err: err}
	}
}

func (a *App) loadBoard(boardID string, q client.ThreadQuery) tea.Cmd {
	tok := a.gens.Begin(keyBoard)
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		view, err := pages.BoardPage(ctx, c, boardID, q)
		return boardPageMsg{tok: tok, view: view, err: err}
	}
}

func (a *App) loadThread(threadID string) tea.Cmd {
	tok := a.gens.Begin(keyThread)
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		view, err := pages.ThreadPage(ctx, c, threadID)
		return threadPageMsg{tok: tok, view: view, err: err}
	}
}

func (a *App) loadInbox() tea.Cmd {
	tok := a.gens.Begin(keyInbox)
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		view, err := pages.InboxPage(ctx, c, client.PageQuery{Size: defaultPageSize})
		return inboxLoadedMsg{tok: tok, view: view, err: err}
	}
}

func (a *App) loadUnread() tea.Cmd {
	tok := a.gens.Begin(keyUnread)
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		count, err := c.UnreadNotificationCount(ctx)
		return unreadCountMsg{tok: tok, count: count, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLoading:
		content = a.spinner.View() + " Restoring session..."
	case ScreenLogin:
		if a.loginScreen != nil {
			content = a.loginScreen.View()
		}
	case ScreenMenu:
		content = a.menuScreen.View()
	case ScreenBoards:
		if a.boardsScreen != nil {
			content = a.boardsScreen.View()
		}
	case ScreenThreads:
		if a.threadsScreen != nil {
			content = a.threadsScreen.View()
		}
	case ScreenThread:
		if a.threadScreen != nil {
			content = a.threadScreen.View()
		}
	case ScreenNotifications:
		if a.inboxScreen != nil {
			content = a.inboxScreen.View()
		}
	}

	return a.wrapWithFrame(content)
}

// frameWidth is the terminal width minus one column to prevent wrapping,
// clamped to the minimum
func (a *App) frameWidth() int {
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

// contentWidth is the width available inside the frame
func (a *App) contentWidth() int {
	return a.frameWidth() - 4
}

// contentHeight calculates the height available between header and footer
func (a *App) contentHeight() int {
	// Header, newline after header, newline before footer, footer
	return a.height - 4
}

// renderHeader creates the header bar with app branding and session context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	left := " " + icons.App.String() + " " + titleStyle.Render("RE-V") + " "
	right := " " + a.sessionLabel(contextStyle) + " "

	fillWidth := width - 4 - lipgloss.Width(left) - lipgloss.Width(right) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		right = ""
		fillWidth = max(width-4-lipgloss.Width(left), 0)
	}

	return borderStyle.Render("╭─") + left + borderStyle.Render(strings.Repeat("─", fillWidth)) + right + borderStyle.Render("─╮")
}

// sessionLabel renders who is logged in, their roles and the unread count
func (a *App) sessionLabel(style lipgloss.Style) string {
	switch {
	case a.snap.Loading && a.screen == ScreenLoading:
		return style.Render("…")
	case !a.snap.IsAuthenticated || a.snap.User == nil:
		return style.Render("guest")
	}

	user := a.snap.User
	name := user.Username
	if name == "" {
		name = user.UserID
	}
	parts := []string{style.Render(icons.User.String() + " " + name)}
	for _, role := range user.Roles {
		parts = append(parts, widgets.RoleBadge(role))
	}
	if badge := widgets.UnreadBadge(a.unread); badge != "" {
		parts = append(parts, badge)
	}
	return strings.Join(parts, " ")
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var styledShortcuts []string
	for _, s := range a.shortcuts() {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}
	left := " " + strings.Join(styledShortcuts, "  ") + " "

	right := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenLoading && a.screen != ScreenLogin && a.screen != ScreenMenu {
		right = statusStyle.Render(icons.Refresh.String()+" Updated "+humanize.Time(a.lastUpdate)) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(left) - lipgloss.Width(right) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		right = ""
		fillWidth = max(width-4-lipgloss.Width(left), 0)
	}

	return borderStyle.Render("╰─") + left + borderStyle.Render(strings.Repeat("─", fillWidth)) + right + borderStyle.Render("─╯")
}

// shortcuts lists the keys of the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Enter Next", "Esc Browse as guest", "ctrl+c Quit"}
	case ScreenMenu:
		return []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenBoards:
		return []string{"↑↓ Navigate", "Enter Open", "r Refresh", "b Back"}
	case ScreenThreads:
		return []string{"Enter Open", "/ Search", "t Tag", "c Clear", "←→ Page", "b Back"}
	case ScreenThread:
		if a.threadScreen != nil {
			if _, composing := a.threadScreen.Composing(); composing {
				return []string{"ctrl+s Send", "Esc Close"}
			}
			if a.threadScreen.ConfirmingDelete() != "" {
				return []string{"y Delete", "n Keep"}
			}
		}
		keys := []string{"r Reply", "a Comment", "+/- React", "m Bookmark"}
		if a.snap.User.IsAdmin() {
			keys = append(keys, "d Delete")
		}
		return append(keys, "b Back")
	case ScreenNotifications:
		return []string{"Enter Open", "x Read", "a All read", "r Refresh", "b Back"}
	default:
		return []string{"ctrl+c Quit"}
	}
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled
func Run(ctx context.Context, apiClient *client.Client, store *session.Store) error {
	app := New(ctx, apiClient, store)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
