package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/bartr/internal/logging"
	"github.com/naveenspark/bartr/internal/session"
)

type screen int

const (
	screenChecking screen = iota
	screenAuth
	screenMain
)

type view int

const (
	viewSwipe view = iota
	viewItems
	viewMatches
)

// authCheckedMsg carries the result of restoring the saved session.
type authCheckedMsg struct {
	sess session.Session
	err  error
}

type loggedOutMsg struct{ err error }

// sessionMsg is a view result tagged with the generation of the session
// whose views issued the command.
type sessionMsg struct {
	gen int
	msg tea.Msg
}

// bindSession tags every message cmd produces with gen. Batches are tagged
// per command.
func bindSession(gen int, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		switch msg := cmd().(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			out := make(tea.BatchMsg, len(msg))
			for i, c := range msg {
				out[i] = bindSession(gen, c)
			}
			return out
		default:
			return sessionMsg{gen: gen, msg: msg}
		}
	}
}

// Options tunes the App.
type Options struct {
	// NoticeDelay is how long the "item added" notice shows before the
	// items view switches to the user's own list.
	NoticeDelay time.Duration
}

// App is the root Bubbletea model. It owns the session and the three
// main views, and only replaces the session on auth result messages.
type App struct {
	mgr     *session.Manager
	log     logging.Logger
	opts    Options
	screen  screen
	view    view
	sess    session.Session
	gen     int // session generation, bumped on every sign in
	auth    authModel
	swipe   swipeModel
	items   itemsModel
	matches matchesModel
	width   int
	height  int
	frame   int // logo shimmer animation frame
}

// NewApp creates the TUI. It starts on a checking screen and restores the
// saved session in Init.
func NewApp(mgr *session.Manager, log logging.Logger, opts Options) App {
	if log == nil {
		log = logging.Nop()
	}
	return App{
		mgr:  mgr,
		log:  log,
		opts: opts,
		auth: newAuthModel(mgr),
	}
}

// Session returns the current session.
func (a App) Session() session.Session {
	return a.sess
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.checkAuth())
}

func (a App) checkAuth() tea.Cmd {
	mgr := a.mgr
	return func() tea.Msg {
		sess, err := mgr.Check(context.Background())
		return authCheckedMsg{sess: sess, err: err}
	}
}

func (a App) logout() tea.Cmd {
	mgr := a.mgr
	return func() tea.Msg {
		_, err := mgr.Logout(context.Background())
		return loggedOutMsg{err: err}
	}
}

// enterMain installs sess and builds fresh views bound to it, then loads
// the swipe deck.
func (a App) enterMain(sess session.Session) (App, tea.Cmd) {
	a.sess = sess
	a.gen++
	a.screen = screenMain
	a.view = viewSwipe

	c := a.mgr.Client(sess)
	a.swipe = newSwipeModel(c, a.log)
	a.items = newItemsModel(c, sess.UserID(), a.opts.NoticeDelay, a.log)
	a.matches = newMatchesModel(c, sess.UserID(), a.log)
	a = a.resizeViews()

	cmd := a.swipe.load()
	return a, a.bind(cmd)
}

func (a App) bind(cmd tea.Cmd) tea.Cmd {
	return bindSession(a.gen, cmd)
}

// showAuth drops the session and shows the auth screen with msg in the
// error area.
func (a App) showAuth(msg string) App {
	a.sess = session.Session{}
	a.screen = screenAuth
	a.auth = newAuthModel(a.mgr)
	a.auth.err = msg
	return a
}

func (a App) resizeViews() App {
	bodyMsg := tea.WindowSizeMsg{Width: a.width, Height: a.bodyHeight()}
	a.swipe, _ = a.swipe.Update(bodyMsg)
	a.items, _ = a.items.Update(bodyMsg)
	a.matches, _ = a.matches.Update(bodyMsg)
	return a
}

// Chrome: header(2) + tabs(1) + help(1) = 4 lines
const chromeLines = 4

func (a App) bodyHeight() int {
	return a.height - chromeLines
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.resizeViews(), nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case authCheckedMsg:
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, session.ErrNoSession):
				return a.showAuth(""), nil
			case errors.Is(msg.err, session.ErrExpired):
				return a.showAuth("Your session has expired. Please log in again."), nil
			default:
				return a.showAuth("Please log in again."), nil
			}
		}
		return a.enterMain(msg.sess)

	case authResultMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			a.auth, cmd = a.auth.Update(msg)
			return a, cmd
		}
		return a.enterMain(msg.sess)

	case loggedOutMsg:
		if msg.err != nil {
			a.log.Error(context.Background(), "logout", "err", msg.err)
			return a.showAuth("Signed out, but the saved token could not be removed."), nil
		}
		return a.showAuth(""), nil

	case sessionMsg:
		// Results from a session that has since ended are dropped.
		if msg.gen != a.gen || a.screen != screenMain {
			return a, nil
		}
		return a.forward(msg.msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.screen != screenMain {
		return a, nil
	}
	return a.forward(msg)
}

// forward hands a result to every view. Results land in their own view
// whether or not it is showing.
func (a App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds [3]tea.Cmd
	a.swipe, cmds[0] = a.swipe.Update(msg)
	a.items, cmds[1] = a.items.Update(msg)
	a.matches, cmds[2] = a.matches.Update(msg)
	return a, a.bind(tea.Batch(cmds[:]...))
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.screen {
	case screenChecking:
		if msg.String() == "q" {
			return a, tea.Quit
		}
		return a, nil
	case screenAuth:
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		return a, cmd
	}

	// Global keys (only when not editing)
	if !a.isEditing() {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "1":
			a.view = viewSwipe
			cmd := a.swipe.load()
			return a, a.bind(cmd)
		case "2":
			a.view = viewItems
			a.items.showAdd()
			return a, nil
		case "3":
			a.view = viewMatches
			cmd := a.matches.load()
			return a, a.bind(cmd)
		case "L":
			return a, a.logout()
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewSwipe:
		a.swipe, cmd = a.swipe.Update(msg)
	case viewItems:
		a.items, cmd = a.items.Update(msg)
	case viewMatches:
		a.matches, cmd = a.matches.Update(msg)
	}
	return a, a.bind(cmd)
}

// isEditing reports whether a text field or prompt owns the keyboard.
func (a App) isEditing() bool {
	switch a.view {
	case viewItems:
		return a.items.editing || a.items.confirming
	case viewMatches:
		return a.matches.composing
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := centerLine(logo, a.width)

	var sub string
	switch {
	case a.screen == screenMain:
		sub = metaStyle.Render("signed in as ") + selectedStyle.Render(a.sess.UserName())
	case a.screen == screenAuth:
		sub = metaStyle.Render("trade what you have for what you want")
	}
	header += "\n" + centerLine(sub, a.width)

	var tabBar, body, help string
	switch a.screen {
	case screenChecking:
		body = "\n  " + dimStyle.Render("checking session...")
		help = helpBar(helpEntry("q", "quit"))
	case screenAuth:
		body = a.auth.View()
		help = helpBar(helpEntry("tab", "next"), helpEntry("enter", "submit"), helpEntry("ctrl+t", "login/register"), helpEntry("ctrl+c", "quit"))
	default:
		tabBar = a.renderTabs()
		tabs := helpEntry("1-3", "tabs")
		switch a.view {
		case viewSwipe:
			body = a.swipe.View()
			help = helpBar(tabs, helpEntry("h/←", "pass"), helpEntry("l/→", "like"), helpEntry("o", "image"), helpEntry("r", "reload"), helpEntry("L", "logout"), helpEntry("q", "quit"))
		case viewItems:
			body = a.items.View()
			help = helpBar(append([]string{tabs}, a.items.helpKeys()...)...)
		case viewMatches:
			body = a.matches.View()
			help = helpBar(append([]string{tabs}, a.matches.helpKeys()...)...)
		}
	}

	body = strings.TrimRight(truncateToHeight(body, a.bodyHeight()), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar, body, help)
}

// renderTabs lays the three tabs out in equal-width columns.
func (a App) renderTabs() string {
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Swipe", viewSwipe},
		{"2", "Items", viewItems},
		{"3", "Matches", viewMatches},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return tabBar.String()
}

func centerLine(s string, width int) string {
	pad := max((width-lipgloss.Width(s))/2, 0)
	return strings.Repeat(" ", pad) + s
}
