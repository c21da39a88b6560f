package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#34d474")).
		Bold(true).
		Render("T A S K D E C K")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"taskdeck", "Open the board (interactive TUI)"},
		{"taskdeck login", "Sign in with email and password"},
		{"taskdeck logout", "Clear your session"},
		{"taskdeck whoami", "Show the signed-in account"},
		{"taskdeck --version", "Show version"},
		{"taskdeck help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  Commands:\n", title)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	env := descStyle.Render("Environment: TASKDECK_API_URL, TASKDECK_TOKEN, TASKDECK_LOG_LEVEL")
	fmt.Printf("\n  %s\n\n", env)
}

func printAnonymousBanner() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#34d474")).
		Bold(true).
		Render("TASKDECK")

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("Not signed in. Run: taskdeck login")

	fmt.Printf("\n%s\n\n%s\n\n", title, hint)
}
