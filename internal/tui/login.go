package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/pkg/client"
	"taskdeck/pkg/domain"
)

type loginField int

const (
	loginFieldName loginField = iota // register mode only
	loginFieldEmail
	loginFieldPassword
	numLoginFields
)

// authDoneMsg carries the result of a login or register call.
type authDoneMsg struct {
	auth *domain.AuthResponse
	err  error
}

type loginModel struct {
	client      *client.Client
	registering bool
	fields      [numLoginFields]string
	focus       loginField
	submitting  bool
	errMsg      string
	notice      string // shown above the form, e.g. after a forced logout
	done        bool   // true once authenticated; the app switches views
	width       int
	height      int
}

func newLoginModel(c *client.Client) loginModel {
	return loginModel{client: c, focus: loginFieldEmail}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = apiMessage(msg.err)
			return m, nil
		}
		m.done = true
		m.errMsg = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.focus = m.nextField(1)
	case "shift+tab", "up":
		m.focus = m.nextField(-1)
	case "ctrl+r":
		m.registering = !m.registering
		m.errMsg = ""
		if !m.registering && m.focus == loginFieldName {
			m.focus = loginFieldEmail
		}
	case "enter":
		if m.focus == loginFieldPassword {
			return m.submit()
		}
		m.focus = m.nextField(1)
	case "backspace":
		f := &m.fields[m.focus]
		*f = editRune(*f, "backspace")
	default:
		key := msg.String()
		if len(key) == 1 {
			m.fields[m.focus] = editRune(m.fields[m.focus], key)
		}
	}
	return m, nil
}

// nextField cycles focus, skipping the name field outside register mode.
func (m loginModel) nextField(dir loginField) loginField {
	f := m.focus
	for {
		f = (f + dir + numLoginFields) % numLoginFields
		if f != loginFieldName || m.registering {
			return f
		}
	}
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.fields[loginFieldEmail])
	password := m.fields[loginFieldPassword]
	if email == "" || password == "" {
		m.errMsg = "email and password are required"
		return m, nil
	}

	c := m.client
	if m.registering {
		name := strings.TrimSpace(m.fields[loginFieldName])
		if name == "" {
			m.errMsg = "name is required"
			return m, nil
		}
		m.submitting = true
		m.errMsg = ""
		return m, func() tea.Msg {
			auth, err := c.Register(context.Background(), client.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			return authDoneMsg{auth: auth, err: err}
		}
	}

	m.submitting = true
	m.errMsg = ""
	return m, func() tea.Msg {
		auth, err := c.Login(context.Background(), email, password)
		return authDoneMsg{auth: auth, err: err}
	}
}

func (m loginModel) View() string {
	var b strings.Builder

	title := "sign in"
	hint := "ctrl+r to create an account"
	if m.registering {
		title = "create account"
		hint = "ctrl+r to sign in instead"
	}
	b.WriteString(" " + sectionHeaderStyle.Render("── "+strings.ToUpper(title)+" ──") + "\n\n")

	if m.notice != "" {
		b.WriteString(" " + noticeStyle.Render(m.notice) + "\n\n")
	}

	labels := [numLoginFields]string{"name", "email", "password"}
	for f := loginField(0); f < numLoginFields; f++ {
		if f == loginFieldName && !m.registering {
			continue
		}
		cursor := " "
		style := metaStyle
		if f == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[f]
		if f == loginFieldPassword {
			value = strings.Repeat("•", len([]rune(value)))
		}
		if f == m.focus {
			value += "█"
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-8s", labels[f])), value)
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("signing in..."))
	case m.errMsg != "":
		b.WriteString(" " + errorStyle.Render(m.errMsg))
	default:
		b.WriteString(" " + dimStyle.Render(hint))
	}
	return b.String()
}
