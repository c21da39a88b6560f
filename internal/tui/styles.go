package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Core text styles
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#606878"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Accent / action styles
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#34d474")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	// Surface colors
	borderColor  = lipgloss.Color("#1e1e2a")
	surfaceColor = lipgloss.Color("#111118")

	// Status colors — match the web client's chip palette
	statusColors = map[string]lipgloss.Color{
		"Todo":        lipgloss.Color("#f0944a"),
		"In Progress": lipgloss.Color("#22d3ee"),
		"Completed":   lipgloss.Color("#4ade80"),
		"Blocked":     lipgloss.Color("#e06060"),
	}

	priorityColors = map[string]lipgloss.Color{
		"Low":    lipgloss.Color("#60a0e0"),
		"Medium": lipgloss.Color("#d4a844"),
		"High":   lipgloss.Color("#e06060"),
	}
)

// StatusStyle returns a bold style colored for the given task status.
func StatusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// PriorityStyle returns a style colored for the given task priority.
func PriorityStyle(priority string) lipgloss.Style {
	if c, ok := priorityColors[priority]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878"))
}

// statusDot renders a colored bullet for a status.
func statusDot(status string) string {
	return StatusStyle(status).Render("●")
}

// renderLogo renders the spaced-out wordmark for the header line.
func renderLogo() string {
	const text = "TASKDECK"
	letters := make([]string, 0, len(text))
	for _, r := range text {
		letters = append(letters, string(r))
	}
	return accentStyle.Bold(true).Render(strings.Join(letters, " "))
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpView renders the help overlay.
func helpView() string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#34d474")).
		Bold(true).
		Render("T A S K D E C K")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"taskdeck", "Open the board (interactive TUI)"},
		{"taskdeck login", "Sign in with email and password"},
		{"taskdeck logout", "Clear your session"},
		{"taskdeck whoami", "Show the signed-in account"},
		{"taskdeck --version", "Show version"},
	}

	keys := []struct{ key, desc string }{
		{"1-4", "switch tabs"},
		{"j/k", "move cursor"},
		{"enter", "open detail"},
		{"n", "new project/task"},
		{"r", "reload"},
		{"q", "quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}
	return b.String()
}
