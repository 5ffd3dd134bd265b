package taskform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
)

// DueLayout is the format of the due and reminder inputs, in local time.
const DueLayout = "2006-01-02 15:04"

// Draft is the raw form input. The parent parses and validates it.
type Draft struct {
	Title       string
	Description string
	Priority    model.Priority
	Status      model.Status
	Due         string
	Remind      string
	Tags        string
}

// SubmittedMsg is dispatched when the form is completed. ID is zero for a
// new task.
type SubmittedMsg struct {
	ID    int64
	Draft Draft
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *Draft
	editMode bool
	editID   int64
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &Draft{Priority: model.PriorityMedium, Status: model.StatusTodo},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = 0
	*m.fb = Draft{Priority: model.PriorityMedium, Status: model.StatusTodo}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing task.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	m.editMode = true
	m.editID = t.ID
	*m.fb = DraftFrom(t)
	m.form = m.buildForm()
	return m.form.Init()
}

// Resume reopens the form with the values last submitted.
func (m *Model) Resume() tea.Cmd {
	m.form = m.buildForm()
	return m.form.Init()
}

// DraftFrom renders t as form input.
func DraftFrom(t model.Task) Draft {
	d := Draft{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		Tags:        strings.Join(t.Tags, ", "),
	}
	if t.DueAt != nil {
		d.Due = t.DueAt.Local().Format(DueLayout)
	}
	if t.RemindAt != nil {
		d.Remind = t.RemindAt.Local().Format(DueLayout)
	}
	return d
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.form = nil
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	content := theme.TitleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.Title),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.Description),
		huh.NewSelect[model.Priority]().
			Title("Priority").
			Options(
				huh.NewOption("Critical", model.PriorityCritical),
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Medium", model.PriorityMedium),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.Priority),
	}
	if m.editMode {
		fields = append(fields,
			huh.NewSelect[model.Status]().
				Title("Status").
				Options(
					huh.NewOption(model.StatusTodo.Label(), model.StatusTodo),
					huh.NewOption(model.StatusDoing.Label(), model.StatusDoing),
					huh.NewOption(model.StatusDone.Label(), model.StatusDone),
				).
				Value(&m.fb.Status),
		)
	}
	fields = append(fields,
		huh.NewInput().
			Title("Due").
			Placeholder("YYYY-MM-DD HH:MM (optional)").
			Value(&m.fb.Due),
		huh.NewInput().
			Title("Remind at").
			Placeholder("YYYY-MM-DD HH:MM (optional)").
			Value(&m.fb.Remind),
		huh.NewInput().
			Title("Tags").
			Placeholder("comma separated").
			Value(&m.fb.Tags),
	)

	return ui.NewForm(m.width, m.height,
		huh.NewGroup(fields...),
	)
}

func (m Model) handleSubmit() tea.Cmd {
	d := *m.fb
	id := int64(0)
	if m.editMode {
		id = m.editID
	}
	return func() tea.Msg { return SubmittedMsg{ID: id, Draft: d} }
}


