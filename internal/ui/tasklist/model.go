package tasklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/filter"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	Task model.Task
}

// statusCycle is the order the status filter steps through; nil means any.
var statusCycle = []*model.Status{
	nil,
	statusPtr(model.StatusTodo),
	statusPtr(model.StatusDoing),
	statusPtr(model.StatusDone),
	statusPtr(model.StatusArchived),
}

func statusPtr(s model.Status) *model.Status { return &s }

// NextStatusFilter returns the status filter following cur.
func NextStatusFilter(cur *model.Status) *model.Status {
	for i, s := range statusCycle {
		if (s == nil && cur == nil) || (s != nil && cur != nil && *s == *cur) {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return nil
}

// Model is the main task list view component. It owns the filter criteria;
// the parent feeds it the already filtered tasks.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	criteria    filter.Criteria
	searchMode  bool
	searchInput textinput.Model
	total       int
	width       int
	height      int
}

// New creates a new task list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, TaskDelegate{}, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search title and description..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. The keyword
// follows the input on every keystroke.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.criteria.Keyword = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.criteria.Keyword = m.searchInput.Value()
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		t, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return SelectedTaskMsg{Task: t} }

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.criteria.Keyword)
		m.searchInput.CursorEnd()
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.FilterStatus):
		m.criteria = m.criteria.WithStatus(NextStatusFilter(m.criteria.Status))
		return m, nil

	case key.Matches(msg, m.keys.FilterTier):
		if m.criteria.Tier == filter.TierHigh {
			m.criteria.Tier = filter.TierAll
		} else {
			m.criteria.Tier = filter.TierHigh
		}
		return m, nil

	case key.Matches(msg, m.keys.FilterDueToday):
		m.criteria.DueToday = !m.criteria.DueToday
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		m.ClearFilters()
		return m, nil
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Criteria returns the current filter criteria.
func (m Model) Criteria() filter.Criteria {
	return m.criteria
}

// SetCriteria replaces the filter criteria.
func (m *Model) SetCriteria(c filter.Criteria) {
	m.criteria = c
	m.searchInput.SetValue(c.Keyword)
}

// ClearFilters resets every criterion.
func (m *Model) ClearFilters() {
	m.criteria.Reset()
	m.searchInput.Reset()
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// SetTasks replaces the rows with the filtered tasks; total is the size of
// the unfiltered set, shown in the title.
func (m *Model) SetTasks(visible []model.Task, total int) tea.Cmd {
	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = TaskItem{Task: t}
	}
	m.total = total
	m.list.Title = fmt.Sprintf("Tasks %d/%d", len(visible), total)
	return m.list.SetItems(items)
}

// SetNow fixes the clock used to flag overdue rows.
func (m *Model) SetNow(now func() time.Time) {
	m.list.SetDelegate(TaskDelegate{now: now})
}

// Selected returns the highlighted task.
func (m Model) Selected() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// FilterSummary describes the active criteria, or "" when none are set.
func (m Model) FilterSummary() string {
	return Summary(m.criteria)
}

// Summary describes c for the status bar.
func Summary(c filter.Criteria) string {
	if c.IsZero() {
		return ""
	}
	var parts []string
	if kw := strings.TrimSpace(c.Keyword); kw != "" {
		parts = append(parts, fmt.Sprintf("search %q", kw))
	}
	if c.Status != nil {
		parts = append(parts, "status "+c.Status.Label())
	}
	if c.Tier == filter.TierHigh {
		parts = append(parts, "high priority")
	}
	if c.DueToday {
		parts = append(parts, "due today")
	}
	if c.Tag != "" {
		parts = append(parts, "#"+c.Tag)
	}
	return "filter: " + strings.Join(parts, ", ")
}

// View renders the task list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.total > 0 {
		return style.Render("No matching tasks.\nPress 0 to clear filters.")
	}

	return style.Render(
		"No tasks in this project.\n\n" +
			"Press n to create one, or P to pick another project.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
