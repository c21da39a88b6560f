package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"taskdeck/pkg/domain"
)

func TestCreateProjectForm(t *testing.T) {
	m := newCreateModel(nil).reset(kindProject, nil)

	for _, r := range "website" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	if m.fields[fieldTitle] != "website" {
		t.Errorf("title = %q, want %q", m.fields[fieldTitle], "website")
	}

	out := m.View()
	if !strings.Contains(out, "NEW PROJECT") {
		t.Error("project form should carry the project heading")
	}
	if strings.Contains(out, "priority") {
		t.Error("project form must not show task-only fields")
	}
}

func TestCreateSubmitRequiresTitle(t *testing.T) {
	m := newCreateModel(nil).reset(kindProject, nil)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("empty form must not submit")
	}
	if m.errMsg == "" {
		t.Error("missing title should set an error")
	}
}

func TestCreateTaskNeedsProject(t *testing.T) {
	m := newCreateModel(nil).reset(kindTask, nil)
	for _, r := range "task" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("task form without projects must not submit")
	}
	if !strings.Contains(m.errMsg, "project") {
		t.Errorf("errMsg = %q, want a hint about projects", m.errMsg)
	}
}

func TestCreateTaskPriorityCycle(t *testing.T) {
	projects := []domain.Project{{ID: uuid.New(), Name: "alpha"}}
	m := newCreateModel(nil).reset(kindTask, projects)
	m.focus = fieldPriority

	if got := domain.ValidPriorities[m.priorityIdx]; got != "Medium" {
		t.Fatalf("default priority = %q, want Medium", got)
	}
	m, _ = m.Update(keyMsg("l"))
	if got := domain.ValidPriorities[m.priorityIdx]; got != "High" {
		t.Errorf("priority after l = %q, want High", got)
	}
	m, _ = m.Update(keyMsg("h"))
	m, _ = m.Update(keyMsg("h"))
	if got := domain.ValidPriorities[m.priorityIdx]; got != "Low" {
		t.Errorf("priority after h,h = %q, want Low", got)
	}
}

func TestCreateTaskBadDueDate(t *testing.T) {
	projects := []domain.Project{{ID: uuid.New(), Name: "alpha"}}
	m := newCreateModel(nil).reset(kindTask, projects)

	for _, r := range "task" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m.focus = fieldDueDate
	for _, r := range "tomorrow" {
		m, _ = m.Update(keyMsg(string(r)))
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("unparseable due date must not submit")
	}
	if !strings.Contains(m.errMsg, "YYYY-MM-DD") {
		t.Errorf("errMsg = %q, want the expected date format", m.errMsg)
	}
}

func TestCreateSuccessResetsForm(t *testing.T) {
	m := newCreateModel(nil).reset(kindProject, nil)
	for _, r := range "website" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m.submitted = true

	m, _ = m.Update(createdMsg{kind: kindProject})
	if m.fields[fieldTitle] != "" {
		t.Error("form should reset after a successful create")
	}
	if !strings.Contains(m.View(), "project created") {
		t.Error("view should confirm the create")
	}
}
