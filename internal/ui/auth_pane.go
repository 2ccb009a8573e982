package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smartpark/parking-terminal/internal/models"
)

// authMode selects between the login and register forms
type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// field positions shared by both forms
const (
	fieldEmail = iota
	fieldPassword
	fieldName
	fieldCity
)

// authForm is the login/register form state
type authForm struct {
	mode   authMode
	inputs []textinput.Model
	focus  int
}

func newAuthForm() authForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 100
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	name := textinput.New()
	name.Placeholder = "full name"
	name.CharLimit = 100
	name.Width = 40

	city := textinput.New()
	city.Placeholder = "city"
	city.CharLimit = 100
	city.Width = 40

	return authForm{
		mode:   modeLogin,
		inputs: []textinput.Model{email, password, name, city},
	}
}

// fieldCount is how many inputs the active mode shows
func (f authForm) fieldCount() int {
	if f.mode == modeRegister {
		return 4
	}
	return 2
}

// toggleMode switches between login and register, resetting focus
func (f authForm) toggleMode() authForm {
	if f.mode == modeLogin {
		f.mode = modeRegister
	} else {
		f.mode = modeLogin
	}
	return f.setFocus(0)
}

func (f authForm) setFocus(i int) authForm {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return f
}

// nextField advances focus, wrapping within the active mode's fields
func (f authForm) nextField() authForm {
	return f.setFocus((f.focus + 1) % f.fieldCount())
}

// update forwards a message to the focused input
func (f authForm) update(msg tea.Msg) (authForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// complete reports whether the active mode's required fields are filled
func (f authForm) complete() bool {
	for i := 0; i < f.fieldCount(); i++ {
		if strings.TrimSpace(f.inputs[i].Value()) == "" {
			return false
		}
	}
	return true
}

func (f authForm) email() string    { return strings.TrimSpace(f.inputs[fieldEmail].Value()) }
func (f authForm) password() string { return f.inputs[fieldPassword].Value() }

// registration assembles the profile from the register form
func (f authForm) registration() models.Registration {
	return models.Registration{
		Email:    f.email(),
		Password: f.password(),
		Name:     strings.TrimSpace(f.inputs[fieldName].Value()),
		State:    strings.TrimSpace(f.inputs[fieldCity].Value()),
	}
}

// reset clears the form for re-display after logout
func (f authForm) reset() authForm {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.mode = modeLogin
	return f.setFocus(0)
}

// viewAuth renders the login/register screen
func (m Model) viewAuth() string {
	t := m.theme

	title := t.title.Render("◧ SmartPark Terminal")
	subtitle := t.muted.Render("City parking availability dashboard")

	heading := "Sign in"
	if m.auth.mode == modeRegister {
		heading = "Create account"
	}

	labels := []string{"Email", "Password", "Name", "City"}
	var rows []string
	for i := 0; i < m.auth.fieldCount(); i++ {
		rows = append(rows, t.label.Render(labels[i]), m.auth.inputs[i].View())
	}

	form := t.pane.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		append([]string{t.sectionHeader.Render(heading), ""}, rows...)...,
	))

	var errorLine string
	if m.notice != "" {
		errorLine = t.errorText.Render("✗ " + m.notice)
	}

	help := t.help.Render("Enter: Submit • Tab: Next field • Ctrl+R: Toggle register • Ctrl+C: Quit")

	sections := []string{title, subtitle, "", form}
	if errorLine != "" {
		sections = append(sections, "", errorLine)
	}
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
