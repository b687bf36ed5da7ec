// Package tui is the terminal front end: a search box, result list and
// settings toggles on top of the same presenter the web UI uses.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/present"
)

// Runner is the TUI-facing subset of present.Presenter.
type Runner interface {
	Run(ctx context.Context, form present.Form) *present.View
}

// Model is the Bubble Tea model for the terminal UI.
type Model struct {
	runner    Runner
	providers []string
	maxLimit  int

	input    textinput.Model
	viewport viewport.Model
	form     present.Form
	view     *present.View
	cursor   int
	expanded bool
	ready    bool
}

// New creates the model. form carries the initial provider, result count and
// score visibility; providers is the cycle order for ctrl+p.
func New(runner Runner, form present.Form, providers []string, maxLimit int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "e.g., What is AakiTech's Q3 sales goal?"
	ti.Focus()
	ti.CharLimit = 0
	if maxLimit <= 0 {
		maxLimit = 10
	}
	return Model{
		runner:    runner,
		providers: providers,
		maxLimit:  maxLimit,
		input:     ti,
		viewport:  viewport.New(0, 0),
		form:      form,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 3 + 2 + qh + 1 // header, settings, status, spacer
		vh := msg.Height - reserved - rh
		if vh < 3 {
			vh = 3
		}
		w := msg.Width
		if w < 20 {
			w = 20
		}
		m.viewport.Width = w
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderResults())
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.form.Query = m.input.Value()
			m.view = m.runner.Run(context.Background(), m.form)
			m.form = m.view.Form
			m.cursor = 0
			m.expanded = false
			m.refresh()
			return m, nil
		case tea.KeyDown:
			if m.hasResults() {
				m.cursor = (m.cursor + 1) % len(m.view.Results)
				m.expanded = false
				m.refresh()
			}
			return m, nil
		case tea.KeyUp:
			if m.hasResults() {
				m.cursor = (m.cursor - 1 + len(m.view.Results)) % len(m.view.Results)
				m.expanded = false
				m.refresh()
			}
			return m, nil
		case tea.KeyTab:
			if m.hasResults() && m.view.Results[m.cursor].Truncated {
				m.expanded = !m.expanded
				m.refresh()
			}
			return m, nil
		case tea.KeyCtrlT:
			m.form.ShowScores = !m.form.ShowScores
			m.refresh()
			return m, nil
		case tea.KeyCtrlRight:
			if m.form.Limit < m.maxLimit {
				m.form.Limit++
			}
			return m, nil
		case tea.KeyCtrlLeft:
			if m.form.Limit > 1 {
				m.form.Limit--
			}
			return m, nil
		case tea.KeyCtrlP:
			m.form.Provider = nextProvider(m.providers, m.form.Provider)
			return m, nil
		case tea.KeyPgDown, tea.KeyPgUp:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("AakiTech Internal Knowledge Base")
	settings := dimStyle.Render(m.settingsLine())
	input := queryBoxStyle.Render(m.input.View())
	results := resultBoxStyle.Render(m.viewport.View())
	help := dimStyle.Render("enter search • ↑/↓ select • tab expand • ctrl+t scores • ctrl+←/→ results • ctrl+p provider • esc quit")
	return header + "\n" + settings + "\n" + input + "\n" + m.statusLine() + "\n" + results + "\n" + help
}

// Form returns the current settings and query.
func (m Model) Form() present.Form { return m.form }

// Cursor returns the selected result index.
func (m Model) Cursor() int { return m.cursor }

// Expanded reports whether the selected result shows its full text.
func (m Model) Expanded() bool { return m.expanded }

// CurrentView returns the last rendered search outcome, or nil before the first search.
func (m Model) CurrentView() *present.View { return m.view }

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderResults())
	m.viewport.GotoTop()
}

func (m Model) hasResults() bool {
	return m.view != nil && len(m.view.Results) > 0
}

func (m Model) settingsLine() string {
	scores := "off"
	if m.form.ShowScores {
		scores = "on"
	}
	return fmt.Sprintf("provider: %s   results: %d   scores: %s", m.form.Provider, m.form.Limit, scores)
}

func (m Model) statusLine() string {
	if m.view == nil {
		return dimStyle.Render("Type a question and press enter.")
	}
	switch m.view.State {
	case present.StateWarning, present.StateEmpty:
		return warnStyle.Render(m.view.Message)
	case present.StateError:
		return errorStyle.Render(m.view.Message)
	default:
		return okStyle.Render(m.view.Message)
	}
}

func (m Model) renderResults() string {
	if !m.hasResults() {
		var b strings.Builder
		b.WriteString("Sample questions:\n")
		for _, q := range present.SampleQuestions() {
			b.WriteString("  • " + q + "\n")
		}
		return b.String()
	}
	var b strings.Builder
	for i, r := range m.view.Results {
		title := present.Title(r.Rank, r.Score, m.form.ShowScores)
		marker := "  "
		if i == m.cursor {
			marker = "> "
			title = selectedStyle.Render(title)
		}
		b.WriteString(marker + title + "\n")
		if i != m.cursor {
			continue
		}
		content := r.Preview
		if m.expanded {
			content = r.Full
		}
		b.WriteString(content + "\n")
		if r.Truncated && !m.expanded {
			b.WriteString(dimStyle.Render("(tab to show full content)") + "\n")
		}
		b.WriteString("Source: " + r.Source + "\n\n")
	}
	return b.String()
}

func nextProvider(providers []string, current string) string {
	if len(providers) == 0 {
		return current
	}
	for i, p := range providers {
		if p == current {
			return providers[(i+1)%len(providers)]
		}
	}
	return providers[0]
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
