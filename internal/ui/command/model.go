// Package command is the ':' palette.
package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Entry is one palette command.
type Entry struct {
	Name string
	Desc string
}

// Entries is the palette vocabulary in display order.
var Entries = []Entry{
	{"refresh", "reload projects and tasks"},
	{"list", "task list"},
	{"board", "kanban board"},
	{"stats", "statistics"},
	{"plans", "subscription plans"},
	{"projects", "pick or manage projects"},
	{"tags", "browse tags"},
	{"new", "new task"},
	{"today", "toggle due today filter"},
	{"high", "toggle high priority filter"},
	{"clear", "clear filters"},
	{"theme", "toggle light/dark"},
	{"settings", "edit settings"},
	{"login", "log in or register"},
	{"logout", "log out"},
	{"wipe", "delete all projects and tasks"},
	{"quit", "exit"},
}

// Commands returns the command names.
func Commands() []string {
	names := make([]string, len(Entries))
	for i, e := range Entries {
		names[i] = e.Name
	}
	return names
}

// Resolve expands s to a command. An exact name wins; otherwise a prefix
// shared by exactly one command is expanded. Anything else is returned as
// typed so the caller can report it.
func Resolve(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var match string
	for _, e := range Entries {
		if e.Name == s {
			return s
		}
		if strings.HasPrefix(e.Name, s) {
			if match != "" {
				return s
			}
			match = e.Name
		}
	}
	if match == "" {
		return s
	}
	return match
}

// Matching returns the entries starting with prefix.
func Matching(prefix string) []Entry {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []Entry
	for _, e := range Entries {
		if strings.HasPrefix(e.Name, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Commands())
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEnter {
		cmd := Resolve(m.input.Value())
		m.input.Reset()
		if cmd == "" {
			return m, nil
		}
		return m, func() tea.Msg { return CommandMsg(cmd) }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette with the commands matching the input.
func (m Model) View() string {
	var rows []string
	for _, e := range Matching(m.input.Value()) {
		rows = append(rows, fmt.Sprintf("%-10s %s", e.Name, theme.DimmedStyle.Render(e.Desc)))
	}
	if len(rows) == 0 {
		rows = append(rows, theme.DimmedStyle.Render("no matching command"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render("Command Palette"),
		m.input.View(),
		"",
		strings.Join(rows, "\n"),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
