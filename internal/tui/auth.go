package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/bartr/internal/session"
)

type authMode int

const (
	authLogin authMode = iota
	authRegister
)

// authResultMsg carries the outcome of a login or register attempt.
type authResultMsg struct {
	op   session.Op
	sess session.Session
	err  error
}

type authModel struct {
	mgr        *session.Manager
	mode       authMode
	name       string
	email      string
	password   string
	focus      int
	err        string
	submitting bool
}

func newAuthModel(mgr *session.Manager) authModel {
	return authModel{mgr: mgr}
}

// fields returns pointers to the inputs shown in the current mode, in tab order.
func (m *authModel) fields() []*string {
	if m.mode == authRegister {
		return []*string{&m.name, &m.email, &m.password}
	}
	return []*string{&m.email, &m.password}
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = session.FailureMessage(msg.op, msg.err)
			m.password = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m authModel) handleKey(msg tea.KeyMsg) (authModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	n := len(m.fields())

	switch msg.String() {
	case "ctrl+t":
		if m.mode == authLogin {
			m.mode = authRegister
		} else {
			m.mode = authLogin
		}
		m.focus = 0
		m.err = ""
	case "tab", "down":
		m.focus = (m.focus + 1) % n
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + n) % n
	case "enter":
		if m.focus < n-1 {
			m.focus++
			return m, nil
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	default:
		f := m.fields()[m.focus]
		*f = editKey(*f, msg)
	}
	return m, nil
}

func (m authModel) submit() (authModel, tea.Cmd) {
	name := strings.TrimSpace(m.name)
	email := strings.TrimSpace(m.email)
	password := m.password

	if email == "" || password == "" || (m.mode == authRegister && name == "") {
		m.err = "Please fill in all fields."
		return m, nil
	}

	m.err = ""
	m.submitting = true
	mgr := m.mgr
	if m.mode == authRegister {
		return m, func() tea.Msg {
			sess, err := mgr.Register(context.Background(), name, email, password)
			return authResultMsg{op: session.OpRegister, sess: sess, err: err}
		}
	}
	return m, func() tea.Msg {
		sess, err := mgr.Login(context.Background(), email, password)
		return authResultMsg{op: session.OpLogin, sess: sess, err: err}
	}
}

func (m authModel) View() string {
	var b strings.Builder

	login, register := dimStyle.Render("Login"), dimStyle.Render("Register")
	if m.mode == authLogin {
		login = selectedStyle.Underline(true).Render("Login")
	} else {
		register = selectedStyle.Underline(true).Render("Register")
	}
	b.WriteString("  " + login + chatSepStyle.Render("  ·  ") + register + "\n\n")

	var fields []formField
	if m.mode == authRegister {
		fields = append(fields, formField{label: "name    ", value: m.name, placeholder: "your name"})
	}
	fields = append(fields,
		formField{label: "email   ", value: m.email, placeholder: "you@example.com"},
		formField{label: "password", value: m.password, placeholder: "password", masked: true},
	)
	for i, f := range fields {
		b.WriteString("  " + renderField(f, i == m.focus) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString("  " + dimStyle.Render("signing in..."))
	case m.err != "":
		b.WriteString("  " + errorStyle.Render(m.err))
	}
	return b.String()
}
