package login

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
)

// LoginSubmitMsg asks the parent to log in.
type LoginSubmitMsg struct {
	Email    string
	Password string
}

// SendCodeMsg asks the parent to mail a verification code to Email.
type SendCodeMsg struct {
	Email string
}

// RegisterSubmitMsg asks the parent to create an account.
type RegisterSubmitMsg struct {
	Email    string
	Password string
	Confirm  string
	Code     string
}

// CancelMsg is sent when the user leaves the form.
type CancelMsg struct{}

// Mode selects which form is showing.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegisterEmail
	ModeRegisterDetails
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
	confirm  string
	code     string
}

// Model is the login and registration view. Validation is left to the
// parent so that every failure surfaces the same way.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	mode   Mode
	width  int
	height int
}

// New creates a login view.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Mode returns the active form.
func (m Model) Mode() Mode {
	return m.mode
}

// StartLogin shows the login form, keeping any email already typed.
func (m *Model) StartLogin() tea.Cmd {
	m.mode = ModeLogin
	m.fb.password = ""
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Placeholder("you@example.com").Value(&m.fb.email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.fb.password),
	)).WithKeyMap(ui.FormKeyMap()).WithWidth(m.formWidth())
	return m.form.Init()
}

// StartRegister shows the first registration step, which collects the
// email a code is sent to.
func (m *Model) StartRegister() tea.Cmd {
	m.mode = ModeRegisterEmail
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Description("A verification code will be mailed to this address.").
			Value(&m.fb.email),
	)).WithKeyMap(ui.FormKeyMap()).WithWidth(m.formWidth())
	return m.form.Init()
}

// StartDetails shows the second registration step.
func (m *Model) StartDetails() tea.Cmd {
	m.mode = ModeRegisterDetails
	m.fb.password, m.fb.confirm, m.fb.code = "", "", ""
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewNote().Title("Registering " + m.fb.email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.fb.password),
		huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&m.fb.confirm),
		huh.NewInput().Title("Verification code").Placeholder("6 digits").Value(&m.fb.code),
	)).WithKeyMap(ui.FormKeyMap()).WithWidth(m.formWidth())
	return m.form.Init()
}

// Update forwards messages to the active form. ctrl+r switches between
// logging in and registering.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+r" {
		var cmd tea.Cmd
		if m.mode == ModeLogin {
			cmd = m.StartRegister()
		} else {
			cmd = m.StartLogin()
		}
		return m, cmd
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit := m.submit()
		return m, submit
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	fb := *m.fb
	switch m.mode {
	case ModeRegisterEmail:
		next := m.StartDetails()
		return tea.Batch(func() tea.Msg { return SendCodeMsg{Email: fb.email} }, next)
	case ModeRegisterDetails:
		m.form = nil
		return func() tea.Msg {
			return RegisterSubmitMsg{Email: fb.email, Password: fb.password, Confirm: fb.confirm, Code: fb.code}
		}
	default:
		m.form = nil
		return func() tea.Msg { return LoginSubmitMsg{Email: fb.email, Password: fb.password} }
	}
}

// Reopen restores the form after the parent rejected a submission.
func (m *Model) Reopen() tea.Cmd {
	switch m.mode {
	case ModeRegisterDetails:
		return m.StartDetails()
	case ModeRegisterEmail:
		return m.StartRegister()
	default:
		return m.StartLogin()
	}
}

// View renders the active form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	title := "Log in"
	hint := "ctrl+r register instead"
	if m.mode != ModeLogin {
		title = "Register"
		hint = "ctrl+r log in instead"
	}
	content := theme.TitleStyle.Render(title) + "\n" + m.form.View() + "\n" + theme.HelpStyle.Render(hint)
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return max(min(m.width-4, 80), 40)
}
