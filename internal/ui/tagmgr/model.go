// Package tagmgr lists the tags used in the open project and lets the user
// filter by one, rename it or strip it from every task.
package tagmgr

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/stats"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
)

// CloseMsg signals the parent to close the tag view.
type CloseMsg struct{}

// ChosenMsg asks the parent to filter by Tag. An empty Tag clears the filter.
type ChosenMsg struct {
	Tag string
}

// RenameMsg asks the parent to replace From with To on every task.
type RenameMsg struct {
	From string
	To   string
}

// RemoveMsg asks the parent to strip Tag from every task.
type RemoveMsg struct {
	Tag string
}

type tagMode int

const (
	modeList tagMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	confirm bool
}

// Model is the Bubble Tea model for the tag view.
type Model struct {
	mode        tagMode
	keys        *keys.KeyMap
	tags        []stats.TagCount
	active      string
	cursor      ui.Cursor
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	width       int
	height      int
}

// New creates a new tag view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// SetTasks recounts the tags of tasks; active is the tag currently filtered on.
func (m *Model) SetTasks(tasks []model.Task, active string) {
	m.tags = stats.TopTagCounts(tasks, math.MaxInt)
	m.active = active
	m.cursor.Clamp(len(m.tags))
}

// Tags returns the listed tags and their counts.
func (m Model) Tags() []stats.TagCount {
	return m.tags
}

// Editing reports whether a form is open.
func (m Model) Editing() bool {
	return m.mode != modeList
}

func (m Model) selected() (string, bool) {
	if len(m.tags) == 0 {
		return "", false
	}
	return m.tags[m.cursor].Tag, true
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		return m.handleListKey(km)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		m.cursor.Next(len(m.tags))
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.cursor.Prev(len(m.tags))
		return m, nil

	case key.Matches(msg, m.keys.Select):
		tag, ok := m.selected()
		if !ok {
			return m, nil
		}
		if strings.EqualFold(tag, m.active) {
			tag = ""
		}
		return m, func() tea.Msg { return ChosenMsg{Tag: tag} }

	case key.Matches(msg, m.keys.ClearFilters):
		return m, func() tea.Msg { return ChosenMsg{} }

	case key.Matches(msg, m.keys.Edit):
		tag, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.fb.name = tag
		m.form = m.buildForm(tag)
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selected(); !ok {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

// ValidateTag rejects empty names and names containing a comma.
func ValidateTag(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("name is required")
	}
	if strings.Contains(s, ",") {
		return errors.New("tags cannot contain commas")
	}
	return nil
}

func (m Model) buildForm(from string) *huh.Form {
	return ui.NewForm(m.width, m.height,
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Rename #%s", from)).
				Placeholder("New tag name").
				Value(&m.fb.name).
				Validate(ValidateTag),
		),
	)
}

func (m Model) buildConfirmForm() *huh.Form {
	tag, _ := m.selected()
	return ui.NewForm(m.width, m.height,
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove tag %q?", tag)).
				Description("The tag is removed from every task in this project.").
				Affirmative("Yes, remove").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	)
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.mode = modeList
		from, ok := m.selected()
		to := strings.TrimSpace(m.fb.name)
		if !ok || to == from {
			return m, nil
		}
		return m, func() tea.Msg { return RenameMsg{From: from, To: to} }
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.mode = modeList
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		m.mode = modeList
		if tag, ok := m.selected(); ok && m.fb.confirm {
			return m, func() tea.Msg { return RemoveMsg{Tag: tag} }
		}
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the tag view.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Tags"))
	b.WriteString("\n\n")

	if len(m.tags) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No tags in this project yet."))
	} else {
		for i, t := range m.tags {
			label := fmt.Sprintf("#%s", t.Tag)
			if strings.EqualFold(t.Tag, m.active) {
				label += " (filtering)"
			}
			label += theme.DimmedStyle.Render(fmt.Sprintf("  %d", t.Count))

			if i == int(m.cursor) {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"enter filter | 0 clear | e rename | d remove | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}


