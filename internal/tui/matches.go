package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/bartr/internal/logging"
	"github.com/naveenspark/bartr/pkg/client"
	"github.com/naveenspark/bartr/pkg/domain"
)

type matchesLoadedMsg struct {
	seq     int
	matches []domain.Match
	err     error
}

type commentPostedMsg struct {
	matchID int
	err     error
}

type copyResultMsg struct{ err error }

type matchesModel struct {
	client    *client.Client
	log       logging.Logger
	copy      func(string) error
	userID    int
	matches   []domain.Match
	seq       int
	loading   bool
	loaded    bool
	cursor    int
	composing bool
	draft     string
	sending   bool
	statusMsg string
	statusErr bool
	width     int
}

func newMatchesModel(c *client.Client, userID int, log logging.Logger) matchesModel {
	return matchesModel{
		client: c,
		log:    log.With("view", "matches"),
		copy:   clipboard.WriteAll,
		userID: userID,
	}
}

func (m *matchesModel) load() tea.Cmd {
	m.seq++
	m.loading = true
	seq, c := m.seq, m.client
	return func() tea.Msg {
		matches, err := c.ListMatches(context.Background())
		return matchesLoadedMsg{seq: seq, matches: matches, err: err}
	}
}

func (m matchesModel) Update(msg tea.Msg) (matchesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case matchesLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.log.Error(context.Background(), "load matches", "err", msg.err)
			m.setStatus(fmt.Sprintf("couldn't load matches: %v", msg.err), true)
			return m, nil
		}
		m.matches = msg.matches
		m.loaded = true
		if m.cursor >= len(m.matches) {
			m.cursor = max(len(m.matches)-1, 0)
		}
		return m, nil

	case commentPostedMsg:
		m.sending = false
		if msg.err != nil {
			m.log.Error(context.Background(), "add comment", "match_id", msg.matchID, "err", msg.err)
			m.setStatus(fmt.Sprintf("comment not sent: %v", msg.err), true)
			return m, nil
		}
		m.draft = ""
		m.composing = false
		cmd := m.load()
		return m, cmd

	case copyResultMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("copy failed: %v", msg.err), true)
		} else {
			m.setStatus("copied!", false)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.composing {
			return m.handleComposeKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m matchesModel) handleKey(msg tea.KeyMsg) (matchesModel, tea.Cmd) {
	m.setStatus("", false)
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter", "c":
		if m.cursor < len(m.matches) {
			m.composing = true
		}
	case "y":
		if m.cursor < len(m.matches) {
			text := matchSummary(m.matches[m.cursor], m.userID)
			cp := m.copy
			return m, func() tea.Msg {
				return copyResultMsg{err: cp(text)}
			}
		}
	case "r":
		cmd := m.load()
		return m, cmd
	}
	return m, nil
}

func (m matchesModel) handleComposeKey(msg tea.KeyMsg) (matchesModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.composing = false
	case "enter":
		if m.sending || m.cursor >= len(m.matches) {
			return m, nil
		}
		content := strings.TrimSpace(m.draft)
		if content == "" {
			m.setStatus("write something first", true)
			return m, nil
		}
		m.sending = true
		m.setStatus("", false)
		matchID, c := m.matches[m.cursor].ID, m.client
		return m, func() tea.Msg {
			_, err := c.CreateComment(context.Background(), matchID, content)
			return commentPostedMsg{matchID: matchID, err: err}
		}
	default:
		m.draft = editKey(m.draft, msg)
	}
	return m, nil
}

func (m *matchesModel) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}

// matchSummary is the one-line text copied to the clipboard.
func matchSummary(match domain.Match, me int) string {
	p := match.Perspective(me)
	return fmt.Sprintf("bartr match with %s: my %s for their %s", p.TheirName, p.YourItem, p.TheirItem)
}

func (m matchesModel) helpKeys() []string {
	if m.composing {
		return []string{helpEntry("enter", "send"), helpEntry("esc", "cancel")}
	}
	return []string{helpEntry("j/k", "nav"), helpEntry("c", "comment"), helpEntry("y", "copy"), helpEntry("r", "reload")}
}

func (m matchesModel) View() string {
	var b strings.Builder

	switch {
	case m.loading && !m.loaded:
		b.WriteString("\n  " + dimStyle.Render("loading matches...") + "\n")
	case m.loaded && len(m.matches) == 0:
		b.WriteString("\n  " + dimStyle.Render("No matches yet. Keep swiping!") + "\n")
	}

	for i, match := range m.matches {
		b.WriteString(cardStyle(m.width, i == m.cursor).Render(m.renderMatch(match, i == m.cursor)) + "\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n  " + statusLine(m.statusMsg, m.statusErr) + "\n")
	}
	return b.String()
}

func (m matchesModel) renderMatch(match domain.Match, selected bool) string {
	p := match.Perspective(m.userID)

	var b strings.Builder
	b.WriteString(matchTitleStyle.Render(fmt.Sprintf("Match with %s!", p.TheirName)) + "\n")
	b.WriteString(metaStyle.Render("Your item ") + normalStyle.Render(oneLine(p.YourItem)) +
		accentStyle.Render("  ⇄  ") +
		metaStyle.Render("Their item ") + normalStyle.Render(oneLine(p.TheirItem)) + "\n")
	b.WriteString(chatSepStyle.Render(strings.Repeat("─", 24)) + "\n")

	if len(match.Comments) == 0 {
		b.WriteString(dimStyle.Render("No comments yet"))
	}
	for i, c := range match.Comments {
		name := chatNameStyle.Render(c.UserName)
		if c.UserID == m.userID {
			name = chatSelfNameStyle.Render(c.UserName)
		}
		b.WriteString(name + chatSepStyle.Render(" · ") + chatTextStyle.Render(oneLine(c.Content)))
		if i < len(match.Comments)-1 {
			b.WriteString("\n")
		}
	}

	if selected && m.composing {
		b.WriteString("\n" + inputPromptStyle.Render("> "))
		switch {
		case m.sending:
			b.WriteString(dimStyle.Render(m.draft + " (sending...)"))
		case m.draft == "":
			b.WriteString(inputPlaceholderStyle.Render("Write a comment...") + accentStyle.Render("█"))
		default:
			b.WriteString(normalStyle.Render(m.draft) + accentStyle.Render("█"))
		}
	}
	return b.String()
}
