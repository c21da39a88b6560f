package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/session"
	"taskdeck/pkg/client"
	"taskdeck/pkg/domain"
)

type accountMeMsg struct {
	user *domain.User
	err  error
}

type accountUsersMsg struct {
	users []domain.User
	err   error
}

type accountModel struct {
	client        *client.Client
	sess          *session.Store
	me            *domain.User
	users         []domain.User
	confirmLogout bool
	loggedOut     bool // the app drops back to the login view
	err           string
	width         int
	height        int
}

func newAccountModel(c *client.Client, sess *session.Store) accountModel {
	return accountModel{client: c, sess: sess}
}

func (m accountModel) Init() tea.Cmd {
	c := m.client
	meCmd := func() tea.Msg {
		user, err := c.Me(context.Background())
		if client.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return accountMeMsg{user: user, err: err}
	}
	usersCmd := func() tea.Msg {
		users, err := c.Users(context.Background())
		if client.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return accountUsersMsg{users: users, err: err}
	}
	return tea.Batch(meCmd, usersCmd)
}

func (m accountModel) Update(msg tea.Msg) (accountModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountMeMsg:
		if msg.err != nil {
			m.err = apiMessage(msg.err)
		} else {
			m.me = msg.user
			m.err = ""
		}
		return m, nil

	case accountUsersMsg:
		if msg.err == nil {
			m.users = msg.users
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.confirmLogout {
			m.confirmLogout = false
			if msg.String() == "y" {
				m.client.Logout() //nolint:errcheck // session is gone either way
				m.loggedOut = true
			}
			return m, nil
		}
		if msg.String() == "L" {
			m.confirmLogout = true
		}
		return m, nil
	}
	return m, nil
}

func (m accountModel) View() string {
	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render("── ACCOUNT ──") + "\n\n")

	// Session identity is available even before the API round trip lands.
	user := m.me
	if user == nil {
		user = m.sess.User()
	}
	if user == nil {
		sb.WriteString(" " + dimStyle.Render("not signed in") + "\n")
		return sb.String()
	}

	sb.WriteString(" " + accentStyle.Render(user.Name) + "\n")
	sb.WriteString(" " + metaStyle.Render(user.Email) + "\n")
	if user.Role != "" {
		sb.WriteString(" " + metaStyle.Render("role: "+user.Role) + "\n")
	}
	if !user.ExpiresAt.IsZero() {
		remaining := time.Until(user.ExpiresAt)
		if remaining > 0 {
			fmt.Fprintf(&sb, " %s\n", dimStyle.Render(fmt.Sprintf("session valid for %s", remaining.Round(time.Minute))))
		} else {
			sb.WriteString(" " + errorStyle.Render("session token expired") + "\n")
		}
	}

	if m.confirmLogout {
		sb.WriteString("\n " + errorStyle.Render("sign out? (y/n)") + "\n")
	}
	if m.err != "" {
		sb.WriteString("\n " + errorStyle.Render("error: "+m.err) + "\n")
	}

	if len(m.users) > 0 {
		sb.WriteString("\n " + sectionHeaderStyle.Render(fmt.Sprintf("── TEAM (%d) ──", len(m.users))) + "\n")
		for _, u := range m.users {
			marker := " "
			style := normalStyle
			if u.ID == user.ID {
				marker = "•"
				style = selectedStyle
			}
			fmt.Fprintf(&sb, " %s %s  %s\n", marker, style.Render(u.Name), metaStyle.Render(u.Email))
		}
	}
	return sb.String()
}
