package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLoginTyping(t *testing.T) {
	m := newLoginModel(nil)
	if m.focus != loginFieldEmail {
		t.Fatalf("initial focus = %d, want email", m.focus)
	}

	for _, r := range "dev@x.io" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "secret" {
		m, _ = m.Update(keyMsg(string(r)))
	}

	if m.fields[loginFieldEmail] != "dev@x.io" {
		t.Errorf("email = %q, want %q", m.fields[loginFieldEmail], "dev@x.io")
	}
	if m.fields[loginFieldPassword] != "secret" {
		t.Errorf("password = %q, want %q", m.fields[loginFieldPassword], "secret")
	}
}

func TestLoginPasswordMasked(t *testing.T) {
	m := newLoginModel(nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab}) // focus password
	for _, r := range "secret" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	out := m.View()
	if strings.Contains(out, "secret") {
		t.Error("password must not be rendered in clear text")
	}
	if !strings.Contains(out, "••••••") {
		t.Error("password should render as mask characters")
	}
}

func TestLoginRegisterToggle(t *testing.T) {
	m := newLoginModel(nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if !m.registering {
		t.Fatal("ctrl+r should switch to register mode")
	}
	if !strings.Contains(m.View(), "name") {
		t.Error("register mode should show the name field")
	}

	// Name field becomes reachable via tab cycle.
	m.focus = loginFieldPassword
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != loginFieldName {
		t.Errorf("focus = %d, want name after wrapping", m.focus)
	}

	// Toggling back moves focus off the hidden field.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.focus == loginFieldName {
		t.Error("focus must not stay on the hidden name field")
	}
}

func TestLoginSubmitRequiresFields(t *testing.T) {
	m := newLoginModel(nil)
	m.focus = loginFieldPassword

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("empty form must not submit")
	}
	if m.errMsg == "" {
		t.Error("empty form should set an error message")
	}
}

func TestLoginAuthFailureShown(t *testing.T) {
	m := newLoginModel(nil)
	m.submitting = true

	m, _ = m.Update(authDoneMsg{err: errors.New("invalid credentials")})
	if m.submitting {
		t.Error("submitting should clear on authDoneMsg")
	}
	if m.done {
		t.Error("done must stay false on failure")
	}
	if !strings.Contains(m.View(), "invalid credentials") {
		t.Error("view should show the failure message")
	}
}

func TestLoginKeysIgnoredWhileSubmitting(t *testing.T) {
	m := newLoginModel(nil)
	m.submitting = true
	m, _ = m.Update(keyMsg("x"))
	if m.fields[loginFieldEmail] != "" {
		t.Error("keystrokes should be dropped while a submit is in flight")
	}
}
