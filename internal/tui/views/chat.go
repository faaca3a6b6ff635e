package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"coachai/internal/coach"
	"coachai/internal/tui/components"
	"coachai/internal/tui/msgs"
	"coachai/internal/tui/styles"
)

const (
	greeting = "What goal do you want to achieve? Tell me and I'll help you plan it."

	// apologyMessage replaces the thinking placeholder when a service
	// call fails. The turn is not advanced; resending works.
	apologyMessage = "Sorry, I couldn't reach the planning service. Please send that again."
)

// PlanLibrary is the slice of the saved-plan store the chat view needs.
type PlanLibrary interface {
	Create(goal string, plan *coach.Plan, qaPairs []coach.QAPair) (*coach.SavedPlan, error)
	ListAll() ([]*coach.SavedPlan, error)
	DeleteByID(id string) error
}

// role tags a transcript entry.
type role int

const (
	roleUser role = iota
	roleAssistant
	rolePlan // rendered markdown plan block
)

// entry is one transcript line (or block).
type entry struct {
	role role
	text string
	plan *coach.Plan
}

// ChatModel is the conversation view: transcript plus saved-plan sidebar.
type ChatModel struct {
	svc     coach.PlanService
	library PlanLibrary

	conv       *coach.Conversation
	transcript []entry

	// Saved-plan sidebar
	plans        []*coach.SavedPlan
	cursor       int
	sidebarFocus bool
	loadedPlanID string // saved plan currently shown, "" for a live conversation

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	thinking bool
	notice   string

	width  int
	height int
}

// NewChatModel creates the chat view over a plan service and library.
func NewChatModel(svc coach.PlanService, library PlanLibrary) ChatModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	ta := textarea.New()
	ta.Placeholder = "Tell me your goal... (Enter to send)"
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()

	m := ChatModel{
		svc:      svc,
		library:  library,
		conv:     coach.NewConversation(svc),
		spinner:  s,
		input:    ta,
		viewport: viewport.New(80, 20),
	}
	m.transcript = []entry{{role: roleAssistant, text: greeting}}
	return m
}

// Init implements tea.Model.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textarea.Blink,
		m.loadPlansCmd(),
	)
}

// loadPlansCmd refreshes the sidebar from the library.
func (m ChatModel) loadPlansCmd() tea.Cmd {
	library := m.library
	return func() tea.Msg {
		plans, err := library.ListAll()
		return msgs.PlansLoadedMsg{Plans: plans, Err: err}
	}
}

// Update implements tea.Model.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.rebuildViewport()
		return m, nil

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case msgs.PlansLoadedMsg:
		if msg.Err == nil {
			m.plans = msg.Plans
			if m.cursor >= len(m.plans) {
				m.cursor = max(0, len(m.plans)-1)
			}
		}
		return m, nil

	case msgs.TurnDoneMsg:
		// A result for a conversation we've already replaced is stale;
		// applying it would corrupt the new session's transcript.
		if msg.ConversationID != m.conv.ID() {
			return m, nil
		}
		return m.applyTurn(msg.Turn)

	case msgs.TurnFailedMsg:
		if msg.ConversationID != m.conv.ID() {
			return m, nil
		}
		m.thinking = false
		m.transcript = append(m.transcript, entry{role: roleAssistant, text: apologyMessage})
		m.rebuildViewport()
		return m, nil

	case msgs.PlanSavedMsg:
		if msg.Err != nil {
			m.notice = "Plan not saved: " + msg.Err.Error()
			return m, nil
		}
		m.notice = "Plan saved"
		return m, m.loadPlansCmd()

	case msgs.PlanDeletedMsg:
		if msg.Err != nil {
			m.notice = "Delete failed: " + msg.Err.Error()
			return m, nil
		}
		if msg.ID == m.loadedPlanID {
			// The plan on screen no longer exists; drop the session
			// rather than leaving a dangling reference.
			m.resetSession()
		}
		return m, m.loadPlansCmd()

	case tea.KeyMsg:
		newModel, cmd, handled := m.handleKeyPress(msg)
		if handled {
			return newModel, cmd
		}
		m = newModel
		if !m.sidebarFocus && !m.thinking {
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			return m, inputCmd
		}
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress processes keys this view owns. Unhandled keys fall
// through to the textarea.
func (m ChatModel) handleKeyPress(msg tea.KeyMsg) (ChatModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true

	case "ctrl+n":
		m.resetSession()
		m.rebuildViewport()
		return m, nil, true

	case "tab":
		if len(m.plans) > 0 || m.sidebarFocus {
			m.sidebarFocus = !m.sidebarFocus
			if m.sidebarFocus {
				m.input.Blur()
			} else {
				m.input.Focus()
			}
		}
		return m, nil, true

	case "up", "k":
		if m.sidebarFocus {
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil, true
		}

	case "down", "j":
		if m.sidebarFocus {
			if m.cursor < len(m.plans)-1 {
				m.cursor++
			}
			return m, nil, true
		}

	case "d":
		if m.sidebarFocus && m.cursor < len(m.plans) {
			return m.deleteSelected()
		}

	case "enter":
		if m.sidebarFocus {
			if m.cursor < len(m.plans) {
				m.loadSavedPlan(m.plans[m.cursor])
				m.rebuildViewport()
			}
			return m, nil, true
		}
		if !m.thinking && strings.TrimSpace(m.input.Value()) != "" {
			model, cmd := m.sendMessage()
			return model, cmd, true
		}
		return m, nil, true

	case "shift+enter", "ctrl+j":
		if !m.sidebarFocus {
			m.input.InsertString("\n")
			return m, nil, true
		}
	}

	return m, nil, false
}

// sendMessage submits the typed message as one conversation turn.
func (m ChatModel) sendMessage() (ChatModel, tea.Cmd) {
	text := m.input.Value()
	m.input.Reset()

	m.transcript = append(m.transcript, entry{role: roleUser, text: text})
	m.thinking = true
	m.notice = ""
	m.loadedPlanID = ""
	m.rebuildViewport()

	conv := m.conv
	submit := func() tea.Msg {
		turn, err := conv.Submit(context.Background(), text)
		if err != nil {
			return msgs.TurnFailedMsg{ConversationID: conv.ID(), Err: err}
		}
		return msgs.TurnDoneMsg{ConversationID: conv.ID(), Turn: turn}
	}
	return m, tea.Batch(submit, m.spinner.Tick)
}

// applyTurn folds a finished turn into the transcript and kicks off
// persistence when a plan was generated.
func (m ChatModel) applyTurn(turn coach.Turn) (ChatModel, tea.Cmd) {
	m.thinking = false

	var cmd tea.Cmd
	if turn.Generated != nil {
		m.transcript = append(m.transcript, entry{role: rolePlan, plan: turn.Generated.Plan})
		generated := turn.Generated
		library := m.library
		cmd = func() tea.Msg {
			saved, err := library.Create(generated.Goal, generated.Plan, generated.QAPairs)
			return msgs.PlanSavedMsg{Saved: saved, Err: err}
		}
	}
	for _, text := range turn.Messages {
		m.transcript = append(m.transcript, entry{role: roleAssistant, text: text})
	}
	m.rebuildViewport()
	return m, cmd
}

// deleteSelected removes the highlighted saved plan.
func (m ChatModel) deleteSelected() (ChatModel, tea.Cmd, bool) {
	id := m.plans[m.cursor].ID
	library := m.library
	return m, func() tea.Msg {
		return msgs.PlanDeletedMsg{ID: id, Err: library.DeleteByID(id)}
	}, true
}

// loadSavedPlan replaces the active session with a stored one. The old
// conversation is abandoned wholesale; any in-flight result for it will
// be discarded by the ID check.
func (m *ChatModel) loadSavedPlan(saved *coach.SavedPlan) {
	m.conv = coach.NewConversation(m.svc)
	m.loadedPlanID = saved.ID
	m.thinking = false
	m.notice = ""
	m.sidebarFocus = false
	m.input.Focus()

	transcript := []entry{{role: roleUser, text: saved.Goal}}
	for _, qa := range saved.QAPairs {
		transcript = append(transcript,
			entry{role: roleAssistant, text: qa.Question},
			entry{role: roleUser, text: qa.Answer},
		)
	}
	transcript = append(transcript, entry{role: rolePlan, plan: saved.Plan})
	if saved.Plan != nil {
		transcript = append(transcript, entry{role: roleAssistant, text: coach.Advisory(saved.Plan)})
	}
	m.transcript = transcript
}

// resetSession drops the active session and starts fresh at Idle.
func (m *ChatModel) resetSession() {
	m.conv = coach.NewConversation(m.svc)
	m.loadedPlanID = ""
	m.thinking = false
	m.notice = ""
	m.sidebarFocus = false
	m.transcript = []entry{{role: roleAssistant, text: greeting}}
	m.input.Reset()
	m.input.Focus()
}

// updateLayout recalculates component sizes.
func (m *ChatModel) updateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	chatWidth := m.chatWidth()
	panelHeight := m.panelHeight()

	viewportWidth := chatWidth - 4
	if viewportWidth < 20 {
		viewportWidth = 20
	}
	viewportHeight := panelHeight - 2
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight
	m.input.SetWidth(m.width - 8)
}

func (m ChatModel) sidebarWidth() int { return (m.width * 25 / 100) - 2 }
func (m ChatModel) chatWidth() int    { return (m.width * 75 / 100) - 2 }

func (m ChatModel) panelHeight() int {
	h := m.height - 10
	if h < 5 {
		h = 5
	}
	return h
}

// rebuildViewport re-renders the transcript into the viewport and keeps
// it scrolled to the latest message.
func (m *ChatModel) rebuildViewport() {
	width := m.viewport.Width
	if width <= 0 {
		width = 76
	}

	var b strings.Builder
	for i, e := range m.transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		switch e.role {
		case roleUser:
			b.WriteString(styles.UserStyle.Render("You: ") + wrap(e.text, width))
		case rolePlan:
			if e.plan != nil {
				b.WriteString(renderPlan(e.plan, width))
			}
		default:
			b.WriteString(wrap(e.text, width))
		}
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

// View implements tea.Model.
func (m ChatModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := styles.TitleStyle.Render("Coach - Goal Planning")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n")

	panelHeight := m.panelHeight()
	sidebar := m.renderSidebar(m.sidebarWidth(), panelHeight)
	chat := m.renderChat()

	sidebarStyle := styles.BoxStyle
	if m.sidebarFocus {
		sidebarStyle = styles.FocusedBoxStyle
	}

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Width(m.sidebarWidth()).Height(panelHeight).Render(sidebar),
		styles.BoxStyle.Width(m.chatWidth()).Height(panelHeight).Render(chat),
	)
	b.WriteString(panels)
	b.WriteString("\n")

	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderActionBar())

	return b.String()
}

// renderSidebar lists saved plans, newest first.
func (m ChatModel) renderSidebar(width, height int) string {
	var lines []string
	lines = append(lines, styles.SubtleStyle.Render("Saved Plans"))
	lines = append(lines, "")

	if len(m.plans) == 0 {
		lines = append(lines, styles.SubtleStyle.Render("No plans yet"))
	}

	for i, p := range m.plans {
		label := truncate(p.Goal, width-4)
		line := "  " + label
		if i == m.cursor && m.sidebarFocus {
			line = styles.SelectedStyle.Render("> " + label)
		} else if p.ID == m.loadedPlanID {
			line = styles.SuccessStyle.Render("* " + label)
		}
		lines = append(lines, line)
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderChat returns the transcript panel.
func (m ChatModel) renderChat() string {
	var lines []string
	lines = append(lines, styles.SubtleStyle.Render("Conversation"))
	lines = append(lines, "")
	lines = append(lines, m.viewport.View())
	return strings.Join(lines, "\n")
}

// renderInput returns the input area, or the thinking indicator.
func (m ChatModel) renderInput() string {
	if m.thinking {
		return m.spinner.View() + styles.SubtleStyle.Render(" Thinking...")
	}
	if m.notice != "" {
		return styles.SubtleStyle.Render(m.notice) + "\n" + styles.InputStyle.Width(m.width-4).Render(m.input.View())
	}
	return styles.InputStyle.Width(m.width - 4).Render(m.input.View())
}

// renderActionBar returns the bottom help bar.
func (m ChatModel) renderActionBar() string {
	var items []string
	if m.sidebarFocus {
		items = []string{"↑/↓ Select", "Enter Load", "d Delete", "Tab Back to chat", "Ctrl+C Quit"}
	} else {
		items = []string{"Enter Send", "Ctrl+N New goal", "Tab Saved plans", "Ctrl+C Quit"}
	}
	return components.NewStatusBar().Render(m.width, items)
}

// truncate shortens a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// Accessors used by tests and the app shell.

// Conversation returns the active conversation.
func (m ChatModel) Conversation() *coach.Conversation { return m.conv }

// Thinking reports whether a turn is in flight.
func (m ChatModel) Thinking() bool { return m.thinking }

// Transcript returns a copy of the transcript texts in order.
func (m ChatModel) Transcript() []string {
	var out []string
	for _, e := range m.transcript {
		if e.role == rolePlan {
			out = append(out, "[plan]")
			continue
		}
		out = append(out, e.text)
	}
	return out
}

// LoadedPlanID returns the id of the saved plan on screen, or "".
func (m ChatModel) LoadedPlanID() string { return m.loadedPlanID }

// Plans returns the sidebar contents.
func (m ChatModel) Plans() []*coach.SavedPlan { return m.plans }
