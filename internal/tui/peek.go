package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"taskdeck/internal/browser"
	"taskdeck/pkg/client"
	"taskdeck/pkg/domain"
)

type taskPeekMsg struct {
	task *domain.Task
	err  error
}

type peekFilesMsg struct {
	files []domain.TaskFile
	err   error
}

type fileDeletedMsg struct {
	fileID uuid.UUID
	err    error
}

type peekModel struct {
	client     *client.Client
	task       *domain.Task
	files      []domain.TaskFile
	fileCursor int
	closed     bool
	err        string
	width      int
}

func newPeekModel(c *client.Client) peekModel {
	return peekModel{client: c}
}

func (m peekModel) load(id uuid.UUID) tea.Cmd {
	c := m.client
	taskCmd := func() tea.Msg {
		task, err := c.GetTask(context.Background(), id)
		if client.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return taskPeekMsg{task: task, err: err}
	}
	filesCmd := func() tea.Msg {
		files, err := c.ListTaskFiles(context.Background(), id)
		if client.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return peekFilesMsg{files: files, err: err}
	}
	return tea.Batch(taskCmd, filesCmd)
}

func (m peekModel) Update(msg tea.Msg) (peekModel, tea.Cmd) {
	switch msg := msg.(type) {
	case taskPeekMsg:
		if msg.err != nil {
			m.err = apiMessage(msg.err)
		} else {
			m.task = msg.task
		}
		return m, nil

	case peekFilesMsg:
		if msg.err == nil {
			m.files = msg.files
			if m.fileCursor >= len(m.files) {
				m.fileCursor = 0
			}
		}
		return m, nil

	case fileDeletedMsg:
		if msg.err != nil {
			m.err = apiMessage(msg.err)
			return m, nil
		}
		files := m.files[:0]
		for _, f := range m.files {
			if f.ID != msg.fileID {
				files = append(files, f)
			}
		}
		m.files = files
		if m.fileCursor >= len(m.files) && m.fileCursor > 0 {
			m.fileCursor--
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			m.closed = true
		case "j", "down":
			if m.fileCursor < len(m.files)-1 {
				m.fileCursor++
			}
		case "k", "up":
			if m.fileCursor > 0 {
				m.fileCursor--
			}
		case "o":
			if m.fileCursor < len(m.files) && m.files[m.fileCursor].URL != "" {
				browser.Open(m.files[m.fileCursor].URL) //nolint:errcheck // best-effort browser open
			}
		case "x":
			if m.task != nil && m.fileCursor < len(m.files) {
				c := m.client
				taskID := m.task.ID
				fileID := m.files[m.fileCursor].ID
				return m, func() tea.Msg {
					err := c.DeleteTaskFile(context.Background(), taskID, fileID)
					if client.IsSessionExpired(err) {
						return sessionExpiredMsg{}
					}
					return fileDeletedMsg{fileID: fileID, err: err}
				}
			}
		}
	}
	return m, nil
}

func (m peekModel) View() string {
	if m.err != "" {
		return "\n " + dimStyle.Render("peek error: "+m.err)
	}
	if m.task == nil {
		return "\n " + dimStyle.Render("loading...")
	}

	t := m.task
	cardWidth := min(60, m.width-4)
	if cardWidth < 30 {
		cardWidth = 30
	}
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(surfaceColor).
		Padding(1, 2).
		Width(cardWidth)

	var sb strings.Builder
	sb.WriteString(selectedStyle.Render(t.Title) + "\n")
	sb.WriteString(statusDot(t.Status) + " " + StatusStyle(t.Status).Render(t.Status))
	sb.WriteString("  " + PriorityStyle(t.Priority).Render(t.Priority))
	if due := formatDue(t.DueDate); due != "" {
		sb.WriteString("  " + metaStyle.Render(due))
	}
	sb.WriteString("\n")

	if t.ProjectName != "" {
		sb.WriteString(metaStyle.Render(t.ProjectName) + "\n")
	}
	if t.AssigneeName != "" {
		sb.WriteString(metaStyle.Render("assigned to "+t.AssigneeName) + "\n")
	}

	if t.Description != "" {
		wrapped := lipgloss.NewStyle().Width(cardWidth - 4).Render(t.Description)
		sb.WriteString("\n" + normalStyle.Render(wrapped) + "\n")
	}

	if len(m.files) > 0 {
		sb.WriteString("\n" + sectionHeaderStyle.Render(fmt.Sprintf("── FILES (%d) ──", len(m.files))) + "\n")
		for i, f := range m.files {
			cursor := " "
			style := normalStyle
			if i == m.fileCursor {
				cursor = ">"
				style = selectedStyle
			}
			sb.WriteString(fmt.Sprintf("%s %s  %s\n", cursor, style.Render(truncStr(f.Name, 36)), metaStyle.Render(formatSize(f.Size))))
		}
	}

	sb.WriteString("\n" + metaStyle.Render(fmt.Sprintf("updated %s", formatTime(t.UpdatedAt))))
	return "\n" + border.Render(sb.String())
}
