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

// dashPollInterval is how often the dashboard auto-refreshes.
const dashPollInterval = 30 * time.Second

type dashTickMsg time.Time

func dashTickCmd() tea.Cmd {
	return tea.Tick(dashPollInterval, func(t time.Time) tea.Msg {
		return dashTickMsg(t)
	})
}

type statsLoadedMsg struct {
	stats *domain.DashboardStats
	err   error
}

type dashboardModel struct {
	client  *client.Client
	stats   *domain.DashboardStats
	loading bool
	err     string
	width   int
	height  int
}

func newDashboardModel(c *client.Client) dashboardModel {
	return dashboardModel{client: c, loading: true}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.load()
}

func (m dashboardModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		stats, err := c.Dashboard(context.Background())
		if client.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = apiMessage(msg.err)
		} else {
			m.stats = msg.stats
			m.err = ""
		}
		return m, dashTickCmd()

	case dashTickMsg:
		return m, m.load()

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.load()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.loading && m.stats == nil {
		return " " + dimStyle.Render("loading dashboard...")
	}
	if m.err != "" {
		return " " + errorStyle.Render("error: "+m.err)
	}
	if m.stats == nil {
		return " " + dimStyle.Render("no data yet")
	}

	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render("── OVERVIEW ──") + "\n\n")
	fmt.Fprintf(&sb, "   %s  %s\n",
		accentStyle.Render(fmt.Sprintf("%3d", m.stats.ProjectCount)),
		normalStyle.Render("projects"))
	fmt.Fprintf(&sb, "   %s  %s\n\n",
		accentStyle.Render(fmt.Sprintf("%3d", m.stats.TaskCount)),
		normalStyle.Render("tasks"))

	sb.WriteString(" " + sectionHeaderStyle.Render("── TASKS BY STATUS ──") + "\n\n")

	// Fixed board order so the bars do not jump around between refreshes.
	for _, status := range domain.ValidStatuses {
		count := m.stats.StatusCounts[status]
		bar := strings.Repeat("█", barLen(count, m.stats.TaskCount, m.barWidth()))
		fmt.Fprintf(&sb, "   %s %s %s\n",
			StatusStyle(status).Render(fmt.Sprintf("%-12s", status)),
			StatusStyle(status).Render(bar),
			metaStyle.Render(fmt.Sprintf("%d", count)))
	}
	return sb.String()
}

func (m dashboardModel) barWidth() int {
	w := m.width - 24
	if w < 10 {
		w = 10
	}
	if w > 40 {
		w = 40
	}
	return w
}

// barLen scales a count to a bar of at most max cells. Non-zero counts always
// get at least one cell so small categories stay visible.
func barLen(count, total, max int) int {
	if count <= 0 || total <= 0 {
		return 0
	}
	n := count * max / total
	if n < 1 {
		n = 1
	}
	return n
}
