package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voicevista/voicevista/internal/router"
)

const minPasswordLength = 6

const (
	loginEmail = iota
	loginPassword
)

const (
	registerName = iota
	registerEmail
	registerPassword
)

func (m *Model) resetAuthForms() {
	m.loginForm = newForm(
		newField("Email", false),
		newField("Password", true),
	)
	m.registerForm = newForm(
		newField("Name", false),
		newField("Email", false),
		newField("Password", true),
	)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeySwitchAuth {
		return m.navigate(router.PathRegister)
	}
	if m.submitting {
		return m, nil
	}
	if !m.loginForm.handleKey(msg) {
		return m, nil
	}

	email := m.loginForm.Value(loginEmail)
	password := string(m.loginForm.fields[loginPassword].value)
	if email == "" || password == "" {
		return m, m.setError("Email and password are required.")
	}
	m.submitting = true
	m.errorMessage = ""
	return m, loginCmd(m.ctx, m.deps.Client, m.deps.Session, email, password)
}

func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeySwitchAuth {
		return m.navigate(router.PathLogin)
	}
	if m.submitting {
		return m, nil
	}
	if !m.registerForm.handleKey(msg) {
		return m, nil
	}

	name := m.registerForm.Value(registerName)
	email := m.registerForm.Value(registerEmail)
	password := string(m.registerForm.fields[registerPassword].value)
	if name == "" || email == "" || password == "" {
		return m, m.setError("Name, email and password are required.")
	}
	if len([]rune(password)) < minPasswordLength {
		return m, m.setError("Password must be at least 6 characters long.")
	}
	m.submitting = true
	m.errorMessage = ""
	return m, registerCmd(m.ctx, m.deps.Client, name, email, password)
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.PanelTitle.Render("Sign in to VoiceVista"))
	b.WriteString("\n\n")
	b.WriteString(m.loginForm.view(m.styles))
	b.WriteString("\n\n")
	if m.submitting {
		b.WriteString(m.styles.Spinner.Render("Signing in..."))
	} else {
		b.WriteString(m.styles.Dim.Render("Don't have an account? Press ctrl+r to register."))
	}
	return m.styles.Panel.Render(b.String())
}

func (m Model) viewRegister() string {
	var b strings.Builder
	b.WriteString(m.styles.PanelTitle.Render("Create your account"))
	b.WriteString("\n\n")
	b.WriteString(m.registerForm.view(m.styles))
	b.WriteString("\n\n")
	if m.submitting {
		b.WriteString(m.styles.Spinner.Render("Creating account..."))
	} else {
		b.WriteString(m.styles.Dim.Render("Already have an account? Press ctrl+r to log in."))
	}
	return m.styles.Panel.Render(b.String())
}
