package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"taskdeck/pkg/client"
	"taskdeck/pkg/domain"
)

type projectsMode int

const (
	projectsList projectsMode = iota
	projectsDetail
	projectsPicker // choosing a user to add as member
)

type projectsLoadedMsg struct {
	projects []domain.Project
	err      error
}

type projectLoadedMsg struct {
	project *domain.Project
	err     error
}

type projectDeletedMsg struct {
	err error
}

type memberChangedMsg struct {
	err error
}

type pickerUsersMsg struct {
	users []domain.User
	err   error
}

type projectsModel struct {
	client       *client.Client
	mode         projectsMode
	projects     []domain.Project
	cursor       int
	detail       *domain.Project
	memberCursor int
	users        []domain.User
	pickerCursor int
	confirmDel   bool
	loading      bool
	status       string
	err          string
	width        int
	height       int
}

func newProjectsModel(c *client.Client) projectsModel {
	return projectsModel{client: c, loading: true}
}

func (m projectsModel) Init() tea.Cmd {
	return m.load()
}

func (m projectsModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		projects, err := c.ListProjects(context.Background())
		if client.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m projectsModel) loadDetail(id uuid.UUID) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		p, err := c.GetProject(context.Background(), id)
		if client.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return projectLoadedMsg{project: p, err: err}
	}
}

func (m projectsModel) loadUsers() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		users, err := c.Users(context.Background())
		if client.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return pickerUsersMsg{users: users, err: err}
	}
}

func (m projectsModel) Update(msg tea.Msg) (projectsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = apiMessage(msg.err)
			return m, nil
		}
		m.projects = msg.projects
		m.err = ""
		if m.cursor >= len(m.projects) {
			m.cursor = 0
		}
		return m, nil

	case projectLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = apiMessage(msg.err)
			m.mode = projectsList
			return m, nil
		}
		m.detail = msg.project
		m.memberCursor = 0
		m.mode = projectsDetail
		m.err = ""
		return m, nil

	case projectDeletedMsg:
		if msg.err != nil {
			m.err = apiMessage(msg.err)
			return m, nil
		}
		m.status = "project deleted"
		m.mode = projectsList
		m.detail = nil
		m.loading = true
		return m, m.load()

	case memberChangedMsg:
		if msg.err != nil {
			m.err = apiMessage(msg.err)
			return m, nil
		}
		m.mode = projectsDetail
		// Refetch so the member list reflects the server state.
		if m.detail != nil {
			return m, m.loadDetail(m.detail.ID)
		}
		return m, nil

	case pickerUsersMsg:
		if msg.err != nil {
			m.err = apiMessage(msg.err)
			m.mode = projectsDetail
			return m, nil
		}
		m.users = msg.users
		m.pickerCursor = 0
		m.mode = projectsPicker
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

func (m projectsModel) updateKeys(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	key := msg.String()
	m.status = ""

	// Delete confirmation swallows every key.
	if m.confirmDel {
		m.confirmDel = false
		if key == "y" && m.detail != nil {
			c := m.client
			id := m.detail.ID
			return m, func() tea.Msg {
				err := c.DeleteProject(context.Background(), id)
				if client.IsSessionExpired(err) {
					return sessionExpiredMsg{}
				}
				return projectDeletedMsg{err: err}
			}
		}
		return m, nil
	}

	switch m.mode {
	case projectsList:
		switch key {
		case "j", "down":
			if m.cursor < len(m.projects)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if m.cursor < len(m.projects) {
				m.loading = true
				return m, m.loadDetail(m.projects[m.cursor].ID)
			}
		case "r":
			m.loading = true
			return m, m.load()
		}

	case projectsDetail:
		switch key {
		case "esc":
			m.mode = projectsList
			m.detail = nil
		case "j", "down":
			if m.detail != nil && m.memberCursor < len(m.detail.Members)-1 {
				m.memberCursor++
			}
		case "k", "up":
			if m.memberCursor > 0 {
				m.memberCursor--
			}
		case "a":
			return m, m.loadUsers()
		case "x":
			if m.detail != nil && m.memberCursor < len(m.detail.Members) {
				c := m.client
				projectID := m.detail.ID
				memberID := m.detail.Members[m.memberCursor].ID
				return m, func() tea.Msg {
					err := c.RemoveProjectMember(context.Background(), projectID, memberID)
					if client.IsSessionExpired(err) {
						return sessionExpiredMsg{}
					}
					return memberChangedMsg{err: err}
				}
			}
		case "d":
			m.confirmDel = true
		}

	case projectsPicker:
		switch key {
		case "esc":
			m.mode = projectsDetail
		case "j", "down":
			if m.pickerCursor < len(m.users)-1 {
				m.pickerCursor++
			}
		case "k", "up":
			if m.pickerCursor > 0 {
				m.pickerCursor--
			}
		case "enter":
			if m.detail != nil && m.pickerCursor < len(m.users) {
				c := m.client
				projectID := m.detail.ID
				userID := m.users[m.pickerCursor].ID
				return m, func() tea.Msg {
					err := c.AddProjectMember(context.Background(), projectID, userID)
					if client.IsSessionExpired(err) {
						return sessionExpiredMsg{}
					}
					return memberChangedMsg{err: err}
				}
			}
		}
	}
	return m, nil
}

func (m projectsModel) View() string {
	switch m.mode {
	case projectsDetail:
		return m.detailView()
	case projectsPicker:
		return m.pickerView()
	default:
		return m.listView()
	}
}

func (m projectsModel) listView() string {
	if m.loading && len(m.projects) == 0 {
		return " " + dimStyle.Render("loading projects...")
	}
	if m.err != "" {
		return " " + errorStyle.Render("error: "+m.err)
	}
	if len(m.projects) == 0 {
		return " " + dimStyle.Render("no projects yet — press n to create one")
	}

	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("── PROJECTS (%d) ──", len(m.projects))) + "\n\n")
	if m.status != "" {
		sb.WriteString(" " + okStyle.Render(m.status) + "\n\n")
	}
	for i, p := range m.projects {
		cursor := " "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = ">"
			nameStyle = selectedStyle
		}
		meta := fmt.Sprintf("%d tasks · %d members · %s", p.TaskCount, len(p.Members), formatTime(p.UpdatedAt))
		fmt.Fprintf(&sb, " %s %s  %s\n", cursor, nameStyle.Render(truncStr(p.Name, 40)), metaStyle.Render(meta))
		if i == m.cursor && p.Description != "" {
			sb.WriteString("     " + dimStyle.Render(truncStr(p.Description, m.width-8)) + "\n")
		}
	}
	return sb.String()
}

func (m projectsModel) detailView() string {
	p := m.detail
	if p == nil {
		return " " + dimStyle.Render("loading project...")
	}

	var sb strings.Builder
	sb.WriteString(" " + accentStyle.Render(p.Name) + "\n")
	if p.Description != "" {
		sb.WriteString(" " + normalStyle.Render(p.Description) + "\n")
	}
	fmt.Fprintf(&sb, " %s\n\n", metaStyle.Render(fmt.Sprintf("%d tasks · created %s", p.TaskCount, formatTime(p.CreatedAt))))

	if m.confirmDel {
		sb.WriteString(" " + errorStyle.Render("delete this project? (y/n)") + "\n\n")
	}
	if m.err != "" {
		sb.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n\n")
	}

	sb.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("── MEMBERS (%d) ──", len(p.Members))) + "\n")
	if len(p.Members) == 0 {
		sb.WriteString(" " + dimStyle.Render("no members — press a to add one") + "\n")
	}
	for i, mem := range p.Members {
		cursor := " "
		style := normalStyle
		if i == m.memberCursor {
			cursor = ">"
			style = selectedStyle
		}
		role := mem.Role
		if role == "" {
			role = "member"
		}
		fmt.Fprintf(&sb, " %s %s  %s\n", cursor, style.Render(mem.Name), metaStyle.Render(mem.Email+" · "+role))
	}
	return sb.String()
}

func (m projectsModel) pickerView() string {
	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render("── ADD MEMBER ──") + "\n\n")
	if len(m.users) == 0 {
		sb.WriteString(" " + dimStyle.Render("no users available") + "\n")
		return sb.String()
	}
	for i, u := range m.users {
		cursor := " "
		style := normalStyle
		if i == m.pickerCursor {
			cursor = ">"
			style = selectedStyle
		}
		fmt.Fprintf(&sb, " %s %s  %s\n", cursor, style.Render(u.Name), metaStyle.Render(u.Email))
	}
	return sb.String()
}

func (m projectsModel) helpKeys() string {
	switch m.mode {
	case projectsDetail:
		return helpEntry("a", "add member") + "  " + helpEntry("x", "remove") + "  " + helpEntry("d", "delete") + "  " + helpEntry("esc", "back")
	case projectsPicker:
		return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "add") + "  " + helpEntry("esc", "back")
	default:
		return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("n", "new") + "  " + helpEntry("r", "reload")
	}
}
