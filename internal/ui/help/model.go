// Package help renders the keyboard reference.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/theme"
)

// sections names the groups of keys.KeyMap.FullHelp, in order.
var sections = []string{"Navigation", "Views", "Filters", "Tasks", "Account"}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{keys: keys, help: h}
	m.SetSize(width, height)
	return m
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders one titled block per key group.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")

	for i, group := range m.keys.FullHelp() {
		name := "More"
		if i < len(sections) {
			name = sections[i]
		}
		b.WriteString("\n")
		b.WriteString(theme.DetailLabelStyle.Render(name))
		b.WriteString("\n")
		b.WriteString(m.help.FullHelpView([][]key.Binding{group}))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("Changing anything requires logging in (L). Filters apply to list, board and stats."))

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(lipgloss.NewStyle().MaxWidth(m.width - 6).Render(b.String()))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
