package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"coachai/internal/auth"
	"coachai/internal/tui/components"
	"coachai/internal/tui/msgs"
	"coachai/internal/tui/styles"
)

// loginField identifies which input holds focus.
type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

// Authenticator is the slice of the auth service the login view needs.
type Authenticator interface {
	SignIn(email, password string) (*auth.Session, error)
	SignUp(email, password string) (*auth.Session, error)
}

// LoginModel gates the chat behind sign-in / sign-up.
type LoginModel struct {
	authsvc Authenticator

	email    textinput.Model
	password textinput.Model
	focus    loginField
	signup   bool
	busy     bool
	errText  string

	width  int
	height int
}

// NewLoginModel creates the login view.
func NewLoginModel(authsvc Authenticator) LoginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return LoginModel{
		authsvc:  authsvc,
		email:    email,
		password: password,
		focus:    fieldEmail,
	}
}

// Init implements tea.Model.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case msgs.AuthFailedMsg:
		m.busy = false
		m.errText = msg.Err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil
		case "ctrl+s":
			m.signup = !m.signup
			m.errText = ""
			return m, nil
		case "enter":
			if m.focus == fieldEmail {
				m.toggleFocus()
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focus == fieldEmail {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *LoginModel) toggleFocus() {
	if m.focus == fieldEmail {
		m.focus = fieldPassword
		m.email.Blur()
		m.password.Focus()
	} else {
		m.focus = fieldEmail
		m.password.Blur()
		m.email.Focus()
	}
}

// submit runs the auth call off the Update loop.
func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.errText = "email and password are required"
		return m, nil
	}

	m.busy = true
	m.errText = ""
	signup := m.signup
	authsvc := m.authsvc

	return m, func() tea.Msg {
		var sess *auth.Session
		var err error
		if signup {
			sess, err = authsvc.SignUp(email, password)
		} else {
			sess, err = authsvc.SignIn(email, password)
		}
		if err != nil {
			return msgs.AuthFailedMsg{Err: err}
		}
		return msgs.SignedInMsg{Session: sess}
	}
}

// View implements tea.Model.
func (m LoginModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	title := "Sign in to Coach"
	action := "Sign in"
	if m.signup {
		title = "Create a Coach account"
		action = "Create account"
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")
	if m.busy {
		b.WriteString(styles.SubtleStyle.Render("Signing in..."))
	} else if m.errText != "" {
		b.WriteString(styles.ErrorStyle.Render(m.errText))
	} else {
		b.WriteString(styles.SubtleStyle.Render("Enter " + action))
	}

	card := styles.BoxStyle.Width(48).Render(b.String())
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, card)

	bar := components.NewStatusBar().Render(m.width, []string{
		"Tab Switch field",
		"Enter Submit",
		"Ctrl+S Toggle sign up",
		"Ctrl+C Quit",
	})
	return body + "\n" + bar
}

// Signup reports whether the view is in sign-up mode.
func (m LoginModel) Signup() bool { return m.signup }

// ErrText returns the current error line (for tests).
func (m LoginModel) ErrText() string { return m.errText }
