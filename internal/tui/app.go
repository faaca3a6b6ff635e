// Package tui implements the interactive coach interface: a login gate
// followed by the goal-planning chat with a saved-plan sidebar.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"coachai/internal/auth"
	"coachai/internal/config"
	"coachai/internal/planapi"
	"coachai/internal/store"
	"coachai/internal/tui/msgs"
	"coachai/internal/tui/views"
)

// View represents the different screens in the TUI.
type View int

const (
	ViewLogin View = iota
	ViewChat
)

// Model is the main Bubble Tea model that orchestrates all views.
type Model struct {
	currentView View
	width       int
	height      int

	login views.LoginModel
	chat  views.ChatModel

	deps *Deps
}

// Deps holds the wired services the TUI runs on.
type Deps struct {
	Store   *store.Store
	Auth    *auth.Service
	Tokens  *auth.TokenCache
	Library *store.Library
	Service *planapi.Client

	session *auth.Session
}

// OpenDeps wires the full dependency graph from configuration.
func OpenDeps(cfg *config.Config) (*Deps, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	d := &Deps{
		Store:   st,
		Auth:    auth.NewService(st),
		Tokens:  auth.NewTokenCache(cfg.DataDir),
		Service: planapi.New(cfg.ServiceURL),
	}
	d.Library = store.NewLibrary(st, func() string {
		if d.session == nil {
			return ""
		}
		return d.session.User.ID
	})
	return d, nil
}

// Close releases the underlying store.
func (d *Deps) Close() error {
	return d.Store.Close()
}

// Resume restores a session from the cached token, if any is valid.
func (d *Deps) Resume() *auth.Session {
	token := d.Tokens.Load()
	if token == "" {
		return nil
	}
	session, err := d.Auth.Current(token)
	if err != nil {
		d.Tokens.Clear()
		return nil
	}
	d.session = session
	return session
}

// Run starts the TUI application.
func Run() error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	deps, err := OpenDeps(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	p := tea.NewProgram(
		NewModel(deps),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}

// NewModel builds the top-level model. If a cached session token is
// still valid the login screen is skipped.
func NewModel(deps *Deps) Model {
	m := Model{
		currentView: ViewLogin,
		login:       views.NewLoginModel(deps.Auth),
		chat:        views.NewChatModel(deps.Service, deps.Library),
		deps:        deps,
	}
	if deps.Resume() != nil {
		m.currentView = ViewChat
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewChat {
		return m.chat.Init()
	}
	return m.login.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var loginCmd, chatCmd tea.Cmd
		m.login, loginCmd = m.login.Update(msg)
		m.chat, chatCmd = m.chat.Update(msg)
		return m, tea.Batch(loginCmd, chatCmd)

	case msgs.SignedInMsg:
		m.deps.session = msg.Session
		m.deps.Tokens.Save(msg.Session.Token)
		m.currentView = ViewChat
		return m, m.chat.Init()
	}

	switch m.currentView {
	case ViewChat:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.currentView == ViewChat {
		return m.chat.View()
	}
	return m.login.View()
}
