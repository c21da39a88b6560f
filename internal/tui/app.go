package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/session"
	"taskdeck/pkg/client"
)

type view int

const (
	viewLogin view = iota
	viewDashboard
	viewProjects
	viewTasks
	viewAccount
	viewCreate
)

// sessionExpiredMsg is emitted by any load command whose request hit an
// unrecoverable 401. The app drops straight back to the login view.
type sessionExpiredMsg struct{}

// App is the root Bubbletea model.
type App struct {
	client    *client.Client
	sess      *session.Store
	version   string
	view      view
	prevView  view // where esc from create returns to
	login     loginModel
	dashboard dashboardModel
	projects  projectsModel
	tasks     tasksModel
	account   accountModel
	create    createModel
	peek      peekModel
	peekOpen  bool
	helpOpen  bool
	width     int
	height    int
}

// NewApp creates a new TUI application. An unauthenticated session lands on
// the login view; otherwise the dashboard opens directly.
func NewApp(c *client.Client, sess *session.Store, version string) App {
	a := App{
		client:    c,
		sess:      sess,
		version:   version,
		login:     newLoginModel(c),
		dashboard: newDashboardModel(c),
		projects:  newProjectsModel(c),
		tasks:     newTasksModel(c),
		account:   newAccountModel(c, sess),
		create:    newCreateModel(c),
		peek:      newPeekModel(c),
		view:      viewDashboard,
		prevView:  viewDashboard,
	}
	if !sess.Authenticated() {
		a.view = viewLogin
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.view == viewLogin {
		return nil
	}
	return tea.Batch(a.dashboard.Init(), a.projects.Init())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.login, _ = a.login.Update(bodyMsg)
		a.dashboard, _ = a.dashboard.Update(bodyMsg)
		a.projects, _ = a.projects.Update(bodyMsg)
		a.tasks, _ = a.tasks.Update(bodyMsg)
		a.account, _ = a.account.Update(bodyMsg)
		a.peek, _ = a.peek.Update(bodyMsg)
		return a, nil

	case sessionExpiredMsg:
		a.peekOpen = false
		a.helpOpen = false
		a.login = newLoginModel(a.client)
		a.login.notice = "session expired — sign in again"
		a.view = viewLogin
		return a, nil

	case showTaskPeekMsg:
		a.peekOpen = true
		a.peek = newPeekModel(a.client)
		return a, a.peek.load(msg.id)

	case tea.KeyMsg:
		if handled, model, cmd := a.updateGlobalKeys(msg); handled {
			return model, cmd
		}
	}

	// Route auth results through the login model, then promote on success.
	if a.view == viewLogin {
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if a.login.done {
			a.view = viewDashboard
			a.dashboard = newDashboardModel(a.client)
			a.projects = newProjectsModel(a.client)
			a.tasks = newTasksModel(a.client)
			a.account = newAccountModel(a.client, a.sess)
			return a, tea.Batch(a.dashboard.Init(), a.projects.Init())
		}
		return a, cmd
	}

	if a.peekOpen {
		var cmd tea.Cmd
		a.peek, cmd = a.peek.Update(msg)
		if a.peek.closed {
			a.peekOpen = false
		}
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.view {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.Update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.Update(msg)
	case viewAccount:
		a.account, cmd = a.account.Update(msg)
		if a.account.loggedOut {
			a.login = newLoginModel(a.client)
			a.view = viewLogin
		}
	case viewCreate:
		a.create, cmd = a.create.Update(msg)
	}
	return a, cmd
}

// updateGlobalKeys handles keys that work from any authenticated view.
// Returns handled=false when the key should fall through to the active view.
func (a App) updateGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return true, a, tea.Quit
	}

	if a.helpOpen {
		switch key {
		case "?", "esc", "q":
			a.helpOpen = false
		}
		return true, a, nil
	}

	// esc leaves the create form even though it is an editing view.
	if key == "esc" && a.view == viewCreate {
		a.view = a.prevView
		switch a.view {
		case viewProjects:
			return true, a, a.projects.Init()
		case viewTasks:
			return true, a, a.tasks.Init()
		}
		return true, a, nil
	}

	if a.view == viewLogin || a.peekOpen || a.isEditing() {
		return false, a, nil
	}

	switch key {
	case "q":
		return true, a, tea.Quit
	case "?":
		a.helpOpen = true
		return true, a, nil
	case "1":
		if a.view != viewDashboard {
			a.view = viewDashboard
			return true, a, a.dashboard.Init()
		}
		return true, a, nil
	case "2":
		if a.view != viewProjects {
			a.view = viewProjects
			return true, a, a.projects.Init()
		}
		return true, a, nil
	case "3":
		if a.view != viewTasks {
			a.view = viewTasks
			return true, a, a.tasks.Init()
		}
		return true, a, nil
	case "4":
		if a.view != viewAccount {
			a.view = viewAccount
			return true, a, a.account.Init()
		}
		return true, a, nil
	case "n":
		if a.view != viewCreate {
			kind := kindProject
			if a.view == viewTasks {
				kind = kindTask
			}
			a.prevView = a.view
			a.create = a.create.reset(kind, a.projects.projects)
			a.view = viewCreate
		}
		return true, a, nil
	}
	return false, a, nil
}

// isEditing reports whether a text input currently owns the keyboard, so
// single-letter globals must not fire.
func (a App) isEditing() bool {
	switch a.view {
	case viewCreate:
		return true
	case viewTasks:
		return a.tasks.editing
	}
	return false
}

func (a App) View() string {
	logo := renderLogo()

	// Identity line under the logo
	statsLine := ""
	if u := a.sess.User(); u != nil && a.view != viewLogin {
		statsLine = metaStyle.Render(u.Name + " · " + u.Email)
	}

	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	if statsLine != "" {
		statsWidth := lipgloss.Width(statsLine)
		statsPad := (a.width - statsWidth) / 2
		if statsPad < 0 {
			statsPad = 0
		}
		header += "\n" + strings.Repeat(" ", statsPad) + statsLine
	} else {
		header += "\n"
	}

	tabBar := a.renderTabs()

	var body string
	var help string
	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("enter", "submit") + "  " + helpEntry("ctrl+r", "mode") + "  " + helpEntry("ctrl+c", "quit")
	case viewDashboard:
		body = a.dashboard.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("r", "reload") + "  " + helpEntry("n", "new") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
	case viewProjects:
		body = a.projects.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + a.projects.helpKeys() + "  " + helpEntry("q", "quit")
	case viewTasks:
		body = a.tasks.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + a.tasks.helpKeys()
	case viewAccount:
		body = a.account.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("L", "logout") + "  " + helpEntry("q", "quit")
	case viewCreate:
		body = a.create.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("h/l", "cycle") + "  " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "cancel")
	}

	if a.peekOpen {
		body = a.peek.View()
		help = " " + helpEntry("j/k", "files") + "  " + helpEntry("o", "open") + "  " + helpEntry("x", "delete file") + "  " + helpEntry("esc", "close")
	}
	if a.helpOpen {
		body = helpView()
		help = " " + helpEntry("esc", "close")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar, body, help)
}

func (a App) renderTabs() string {
	if a.view == viewLogin {
		return ""
	}

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Dashboard", viewDashboard},
		{"2", "Projects", viewProjects},
		{"3", "Tasks", viewTasks},
		{"4", "Account", viewAccount},
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
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return tabBar.String()
}
