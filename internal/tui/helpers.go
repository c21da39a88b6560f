package tui

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"taskdeck/pkg/client"
)

// apiMessage renders an error for inline display, preferring the
// server-provided message when one exists.
func apiMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, client.ErrUnauthenticated) {
		return "not signed in"
	}
	return err.Error()
}

// formatTime renders a relative timestamp for list displays.
func formatTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatDue renders a task due date relative to now. Nil means no due date.
func formatDue(t *time.Time) string {
	if t == nil {
		return ""
	}
	d := time.Until(*t)
	days := int(d.Hours() / 24)
	switch {
	case d < 0:
		overdue := int(-d.Hours() / 24)
		if overdue == 0 {
			return "overdue"
		}
		return fmt.Sprintf("overdue %dd", overdue)
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due %dd", days)
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// formatSize renders a file size in a compact human unit.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.0fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
