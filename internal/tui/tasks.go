package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"taskdeck/pkg/client"
	"taskdeck/pkg/domain"
)

// statusFilters are the status filter cycle positions; empty means all.
var statusFilters = []string{"", "Todo", "In Progress", "Completed", "Blocked"}

// priorityFilters are the priority filter cycle positions; empty means all.
var priorityFilters = []string{"", "Low", "Medium", "High"}

type tasksLoadedMsg struct {
	page *client.TaskPage
	err  error
}

type taskStatusMsg struct {
	task *domain.Task
	err  error
}

type copyResultMsg struct {
	err error
}

type taskDeletedMsg struct {
	err error
}

// showTaskPeekMsg asks the app to open the peek overlay for a task.
type showTaskPeekMsg struct {
	id uuid.UUID
}

type tasksModel struct {
	client      *client.Client
	tasks       []domain.Task
	totalCount  int
	cursor      int
	page        int // 1-based
	statusIdx   int
	priorityIdx int
	search      string
	editing     bool // search input focused
	confirmDel  bool
	loading     bool
	status      string
	err         string
	width       int
	height      int
}

func newTasksModel(c *client.Client) tasksModel {
	return tasksModel{client: c, page: 1, loading: true}
}

func (m tasksModel) Init() tea.Cmd {
	return m.load()
}

func (m tasksModel) filter() client.TaskFilter {
	return client.TaskFilter{
		Status:   statusFilters[m.statusIdx],
		Priority: priorityFilters[m.priorityIdx],
		Search:   m.search,
		Page:     m.page,
		Limit:    pageSize,
	}
}

func (m tasksModel) load() tea.Cmd {
	c := m.client
	f := m.filter()
	return func() tea.Msg {
		page, err := c.ListTasks(context.Background(), f)
		if client.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return tasksLoadedMsg{page: page, err: err}
	}
}

func (m tasksModel) totalPages() int {
	if m.totalCount <= 0 {
		return 1
	}
	return (m.totalCount + pageSize - 1) / pageSize
}

func (m tasksModel) Update(msg tea.Msg) (tasksModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = apiMessage(msg.err)
			return m, nil
		}
		m.tasks = msg.page.Tasks
		m.totalCount = msg.page.TotalCount
		m.err = ""
		if m.cursor >= len(m.tasks) {
			m.cursor = 0
		}
		return m, nil

	case taskStatusMsg:
		if msg.err != nil {
			m.err = apiMessage(msg.err)
			return m, nil
		}
		// Patch the row in place; a full reload would lose the cursor.
		for i := range m.tasks {
			if m.tasks[i].ID == msg.task.ID {
				m.tasks[i] = *msg.task
				break
			}
		}
		m.status = "moved to " + msg.task.Status
		return m, nil

	case taskDeletedMsg:
		if msg.err != nil {
			m.err = apiMessage(msg.err)
			return m, nil
		}
		m.status = "task deleted"
		m.loading = true
		return m, m.load()

	case copyResultMsg:
		if msg.err != nil {
			m.err = "copy failed: " + msg.err.Error()
		} else {
			m.status = "task id copied"
		}
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

func (m tasksModel) updateKeys(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	key := msg.String()

	if m.editing {
		switch key {
		case "enter", "esc":
			m.editing = false
			if key == "esc" {
				m.search = ""
			}
			m.page = 1
			m.loading = true
			return m, m.load()
		default:
			m.search = editRune(m.search, key)
		}
		return m, nil
	}

	m.status = ""

	if m.confirmDel {
		m.confirmDel = false
		if key == "y" && m.cursor < len(m.tasks) {
			c := m.client
			id := m.tasks[m.cursor].ID
			return m, func() tea.Msg {
				err := c.DeleteTask(context.Background(), id)
				if client.IsSessionExpired(err) {
					return sessionExpiredMsg{}
				}
				return taskDeletedMsg{err: err}
			}
		}
		return m, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.tasks) {
			id := m.tasks[m.cursor].ID
			return m, func() tea.Msg { return showTaskPeekMsg{id: id} }
		}
	case "s":
		m.statusIdx = (m.statusIdx + 1) % len(statusFilters)
		m.page = 1
		m.loading = true
		return m, m.load()
	case "p":
		m.priorityIdx = (m.priorityIdx + 1) % len(priorityFilters)
		m.page = 1
		m.loading = true
		return m, m.load()
	case "/":
		m.editing = true
	case "h", "left":
		if m.page > 1 {
			m.page--
			m.loading = true
			return m, m.load()
		}
	case "l", "right":
		if m.page < m.totalPages() {
			m.page++
			m.loading = true
			return m, m.load()
		}
	case "c":
		if m.cursor < len(m.tasks) {
			c := m.client
			t := m.tasks[m.cursor]
			next := domain.NextStatus(t.Status)
			return m, func() tea.Msg {
				updated, err := c.UpdateTaskStatus(context.Background(), t.ID, next)
				if client.IsSessionExpired(err) {
					return sessionExpiredMsg{}
				}
				return taskStatusMsg{task: updated, err: err}
			}
		}
	case "y":
		if m.cursor < len(m.tasks) {
			id := m.tasks[m.cursor].ID.String()
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(id)}
			}
		}
	case "d":
		if m.cursor < len(m.tasks) {
			m.confirmDel = true
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m tasksModel) View() string {
	var sb strings.Builder

	// Filter line: search box plus active chips.
	var filters []string
	if m.editing {
		filters = append(filters, inputPromptStyle.Render("/ ")+m.search+"█")
	} else if m.search != "" {
		filters = append(filters, metaStyle.Render("search:")+" "+normalStyle.Render(m.search))
	}
	if s := statusFilters[m.statusIdx]; s != "" {
		filters = append(filters, StatusStyle(s).Render(s))
	}
	if p := priorityFilters[m.priorityIdx]; p != "" {
		filters = append(filters, PriorityStyle(p).Render(p))
	}
	header := fmt.Sprintf("── TASKS (%d) ──", m.totalCount)
	sb.WriteString(" " + sectionHeaderStyle.Render(header))
	if len(filters) > 0 {
		sb.WriteString("  " + strings.Join(filters, "  "))
	}
	sb.WriteString("\n\n")

	switch {
	case m.loading && len(m.tasks) == 0:
		sb.WriteString(" " + dimStyle.Render("loading tasks..."))
		return sb.String()
	case m.err != "":
		sb.WriteString(" " + errorStyle.Render("error: "+m.err))
		return sb.String()
	case len(m.tasks) == 0:
		sb.WriteString(" " + dimStyle.Render("no tasks match"))
		return sb.String()
	}

	if m.status != "" {
		sb.WriteString(" " + okStyle.Render(m.status) + "\n\n")
	}
	if m.confirmDel {
		sb.WriteString(" " + errorStyle.Render("delete this task? (y/n)") + "\n\n")
	}

	for i, t := range m.tasks {
		cursor := " "
		titleStyle := normalStyle
		if i == m.cursor {
			cursor = ">"
			titleStyle = selectedStyle
		}

		line := fmt.Sprintf(" %s %s %s  %s",
			cursor,
			statusDot(t.Status),
			titleStyle.Render(truncStr(t.Title, 44)),
			PriorityStyle(t.Priority).Render(t.Priority))
		if t.AssigneeName != "" {
			line += "  " + metaStyle.Render("@"+t.AssigneeName)
		}
		if due := formatDue(t.DueDate); due != "" {
			style := metaStyle
			if strings.HasPrefix(due, "overdue") {
				style = errorStyle
			}
			line += "  " + style.Render(due)
		}
		sb.WriteString(line + "\n")
		if i == m.cursor && t.ProjectName != "" {
			sb.WriteString("      " + dimStyle.Render(t.ProjectName) + "\n")
		}
	}

	if m.totalPages() > 1 {
		fmt.Fprintf(&sb, "\n %s\n", metaStyle.Render(fmt.Sprintf("page %d/%d", m.page, m.totalPages())))
	}
	return sb.String()
}

func (m tasksModel) helpKeys() string {
	if m.editing {
		return helpEntry("enter", "search") + "  " + helpEntry("esc", "clear")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "peek") + "  " + helpEntry("s", "status") + "  " + helpEntry("p", "priority") + "  " + helpEntry("/", "search") + "  " + helpEntry("h/l", "page") + "  " + helpEntry("c", "advance") + "  " + helpEntry("y", "copy id")
}
