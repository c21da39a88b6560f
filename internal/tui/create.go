package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/pkg/client"
	"taskdeck/pkg/domain"
)

type createKind int

const (
	kindProject createKind = iota
	kindTask
)

type createField int

const (
	fieldTitle createField = iota
	fieldDescription
	fieldProject  // task only, h/l cycle
	fieldPriority // task only, h/l cycle
	fieldDueDate  // task only, YYYY-MM-DD
	numCreateFields
)

type createdMsg struct {
	kind createKind
	err  error
}

type createModel struct {
	client      *client.Client
	kind        createKind
	fields      [numCreateFields]string
	focus       createField
	projects    []domain.Project // cycle choices for fieldProject
	projectIdx  int
	priorityIdx int
	statusMsg   string
	errMsg      string
	submitted   bool
}

func newCreateModel(c *client.Client) createModel {
	return createModel{client: c, priorityIdx: 1} // Medium
}

func (m createModel) Init() tea.Cmd {
	return nil
}

// reset prepares the form for a new entry of the given kind. The projects
// slice feeds the project picker when creating a task.
func (m createModel) reset(kind createKind, projects []domain.Project) createModel {
	m.kind = kind
	m.fields = [numCreateFields]string{}
	m.focus = fieldTitle
	m.projects = projects
	m.projectIdx = 0
	m.priorityIdx = 1
	m.statusMsg = ""
	m.errMsg = ""
	m.submitted = false
	return m
}

func (m createModel) lastField() createField {
	if m.kind == kindProject {
		return fieldDescription
	}
	return fieldDueDate
}

func (m createModel) Update(msg tea.Msg) (createModel, tea.Cmd) {
	switch msg := msg.(type) {
	case createdMsg:
		m.submitted = false
		if msg.err != nil {
			m.errMsg = apiMessage(msg.err)
			return m, nil
		}
		m = m.reset(m.kind, m.projects)
		if msg.kind == kindProject {
			m.statusMsg = "project created"
		} else {
			m.statusMsg = "task created"
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m createModel) updateKeys(msg tea.KeyMsg) (createModel, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	m.statusMsg = ""
	m.errMsg = ""

	key := msg.String()
	switch key {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = m.nextField(1)
	case "shift+tab", "up":
		m.focus = m.nextField(-1)
	case "enter":
		if m.focus == fieldDescription {
			m.fields[fieldDescription] += "\n"
		} else {
			m.focus = m.nextField(1)
		}
	case "backspace":
		if m.editable(m.focus) {
			f := &m.fields[m.focus]
			*f = editRune(*f, "backspace")
		}
	case "h", "left", "l", "right":
		fwd := key == "l" || key == "right"
		switch m.focus {
		case fieldProject:
			if n := len(m.projects); n > 0 {
				if fwd {
					m.projectIdx = (m.projectIdx + 1) % n
				} else {
					m.projectIdx = (m.projectIdx - 1 + n) % n
				}
				return m, nil
			}
		case fieldPriority:
			n := len(domain.ValidPriorities)
			if fwd {
				m.priorityIdx = (m.priorityIdx + 1) % n
			} else {
				m.priorityIdx = (m.priorityIdx - 1 + n) % n
			}
			return m, nil
		}
		if len(key) == 1 && m.editable(m.focus) {
			m.fields[m.focus] = editRune(m.fields[m.focus], key)
		}
	default:
		if len(key) == 1 && m.editable(m.focus) {
			m.fields[m.focus] = editRune(m.fields[m.focus], key)
		}
	}
	return m, nil
}

func (m createModel) editable(f createField) bool {
	return f == fieldTitle || f == fieldDescription || f == fieldDueDate
}

func (m createModel) nextField(dir createField) createField {
	last := m.lastField()
	n := last + 1
	return (m.focus + dir + n) % n
}

func (m createModel) submit() (createModel, tea.Cmd) {
	title := strings.TrimSpace(m.fields[fieldTitle])
	if title == "" {
		m.errMsg = "title is required"
		return m, nil
	}
	description := strings.TrimSpace(m.fields[fieldDescription])
	c := m.client

	if m.kind == kindProject {
		m.submitted = true
		req := client.CreateProjectRequest{Name: title, Description: description}
		return m, func() tea.Msg {
			_, err := c.CreateProject(context.Background(), req)
			if client.IsSessionExpired(err) {
				return sessionExpiredMsg{}
			}
			return createdMsg{kind: kindProject, err: err}
		}
	}

	if len(m.projects) == 0 {
		m.errMsg = "create a project first"
		return m, nil
	}
	req := client.CreateTaskRequest{
		Title:       title,
		Description: description,
		ProjectID:   m.projects[m.projectIdx].ID,
		Priority:    domain.ValidPriorities[m.priorityIdx],
	}
	if raw := strings.TrimSpace(m.fields[fieldDueDate]); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			m.errMsg = "due date must be YYYY-MM-DD"
			return m, nil
		}
		req.DueDate = &due
	}

	m.submitted = true
	return m, func() tea.Msg {
		_, err := c.CreateTask(context.Background(), req)
		if client.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return createdMsg{kind: kindTask, err: err}
	}
}

func (m createModel) View() string {
	var b strings.Builder

	heading := "NEW PROJECT"
	if m.kind == kindTask {
		heading = "NEW TASK"
	}
	b.WriteString(" " + sectionHeaderStyle.Render("── "+heading+" ──") + "\n\n")

	labels := [numCreateFields]string{"title", "description", "project", "priority", "due date"}
	if m.kind == kindProject {
		labels[fieldTitle] = "name"
	}

	for f := createField(0); f <= m.lastField(); f++ {
		cursor := " "
		style := metaStyle
		if f == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		label := style.Render(fmt.Sprintf("%-12s", labels[f]))

		switch f {
		case fieldProject:
			name := "(none)"
			if len(m.projects) > 0 {
				name = m.projects[m.projectIdx].Name
			}
			fmt.Fprintf(&b, " %s %s: %s  %s\n", cursor, label, normalStyle.Render(name), dimStyle.Render("(h/l to cycle)"))
		case fieldPriority:
			p := domain.ValidPriorities[m.priorityIdx]
			fmt.Fprintf(&b, " %s %s: %s  %s\n", cursor, label, PriorityStyle(p).Render(p), dimStyle.Render("(h/l to cycle)"))
		default:
			value := m.fields[f]
			if f == m.focus {
				value += "█"
			}
			fmt.Fprintf(&b, " %s %s: %s\n", cursor, label, value)
		}
	}

	b.WriteString("\n")
	switch {
	case m.submitted:
		b.WriteString(" " + dimStyle.Render("creating..."))
	case m.errMsg != "":
		b.WriteString(" " + errorStyle.Render(m.errMsg))
	case m.statusMsg != "":
		b.WriteString(" " + okStyle.Render(m.statusMsg))
	}
	return b.String()
}
