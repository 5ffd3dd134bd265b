package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/stats"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui/tasklist"
)

var lanes = []model.Status{model.StatusTodo, model.StatusDoing, model.StatusDone}

// Model is the kanban board: one column per active status.
type Model struct {
	keys   *keys.KeyMap
	cols   [3][]model.Task
	col    int
	row    int
	width  int
	height int
}

// New creates a board model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetTasks regroups the filtered tasks into columns, keeping the cursor in
// range.
func (m *Model) SetTasks(visible []model.Task) {
	c := stats.Board(visible)
	m.cols = [3][]model.Task{c.Todo, c.Doing, c.Done}
	m.clamp()
}

func (m *Model) clamp() {
	n := len(m.cols[m.col])
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// Update moves the cursor and opens the selected card.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Left):
		m.col = (m.col + len(lanes) - 1) % len(lanes)
		m.clamp()
	case key.Matches(km, m.keys.Right):
		m.col = (m.col + 1) % len(lanes)
		m.clamp()
	case key.Matches(km, m.keys.Down):
		if m.row < len(m.cols[m.col])-1 {
			m.row++
		}
	case key.Matches(km, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(km, m.keys.Select):
		if t, ok := m.Selected(); ok {
			return m, func() tea.Msg { return tasklist.SelectedTaskMsg{Task: t} }
		}
	}
	return m, nil
}

// Selected returns the card under the cursor.
func (m Model) Selected() (model.Task, bool) {
	col := m.cols[m.col]
	if m.row < 0 || m.row >= len(col) {
		return model.Task{}, false
	}
	return col[m.row], true
}

// View renders the three columns side by side.
func (m Model) View() string {
	colWidth := (m.width - 2*len(lanes)) / len(lanes)
	if colWidth < 16 {
		colWidth = 16
	}
	rendered := make([]string, len(lanes))
	for i, st := range lanes {
		rendered[i] = m.renderColumn(i, st, colWidth)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderColumn(idx int, st model.Status, width int) string {
	tasks := m.cols[idx]
	lines := []string{
		theme.StatusStyle(st).Render(fmt.Sprintf("%s (%d)", st.Label(), len(tasks))),
		theme.DimmedStyle.Render(strings.Repeat("─", max(width-4, 1))),
	}
	if len(tasks) == 0 {
		lines = append(lines, theme.HelpStyle.Render("empty"))
	}
	maxRows := max(m.height-6, 1)
	for i, t := range tasks {
		if i >= maxRows {
			lines = append(lines, theme.DimmedStyle.Render(fmt.Sprintf("+%d more", len(tasks)-i)))
			break
		}
		card := truncate(t.Title, width-8)
		if t.Priority.IsHighTier() {
			card = theme.PriorityStyle(t.Priority).Render("!") + " " + card
		}
		if idx == m.col && i == m.row {
			lines = append(lines, theme.SelectedItemStyle.Render(card))
		} else {
			lines = append(lines, theme.ListItemStyle.Render(card))
		}
	}

	border := theme.BorderStyle
	if idx == m.col {
		border = border.BorderForeground(theme.ColorBlue)
	}
	return border.Width(width).Height(max(m.height-2, 3)).Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// SetSize updates the board dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
