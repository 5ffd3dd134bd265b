// Package config is the settings view. It edits the parts of the config
// file that make sense to change from inside the board.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
)

// SavedMsg carries the edited configuration.
type SavedMsg struct {
	Config model.AppConfig
}

// CancelMsg signals the settings form was dismissed.
type CancelMsg struct{}

// formFields are bound to the huh inputs. huh writes through these
// pointers, so the struct lives behind a pointer on the model.
type formFields struct {
	baseURL     string
	timeoutSec  string
	intervalSec string
	toastMs     string
	imapHost    string
	imapPort    string
	imapUser    string
	imapTLS     bool
	imapPollSec string
}

// Model is the Bubble Tea model for the settings form.
type Model struct {
	base   model.AppConfig
	form   *huh.Form
	fields *formFields
	width  int
	height int
}

// New creates a new settings view model.
func New(width, height int) Model {
	return Model{fields: &formFields{}, width: width, height: height}
}

// Start fills the form from cfg and focuses it.
func (m *Model) Start(cfg model.AppConfig) tea.Cmd {
	m.base = cfg
	*m.fields = formFields{
		baseURL:     cfg.API.BaseURL,
		timeoutSec:  strconv.Itoa(cfg.API.TimeoutSec),
		intervalSec: strconv.Itoa(cfg.Notify.IntervalSec),
		toastMs:     strconv.Itoa(cfg.Notify.ToastMs),
		imapHost:    cfg.Mailbox.Host,
		imapPort:    cfg.Mailbox.Port,
		imapUser:    cfg.Mailbox.Username,
		imapTLS:     cfg.Mailbox.TLS,
		imapPollSec: strconv.Itoa(cfg.Mailbox.PollSec),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	f := m.fields
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Root of the REST API, including /api").
				Placeholder("http://localhost:8080/api").
				Value(&f.baseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Value(&f.timeoutSec).
				Validate(validatePositive("timeout")),
		).Title("Backend"),
		huh.NewGroup(
			huh.NewInput().
				Title("Reminder check interval (seconds)").
				Value(&f.intervalSec).
				Validate(validatePositive("interval")),
			huh.NewInput().
				Title("Toast duration (milliseconds)").
				Value(&f.toastMs).
				Validate(validatePositive("toast duration")),
		).Title("Notifications"),
		huh.NewGroup(
			huh.NewInput().
				Title("IMAP host").
				Description("Leave empty to type verification codes by hand").
				Placeholder("imap.example.com").
				Value(&f.imapHost),
			huh.NewInput().
				Title("IMAP port").
				Placeholder("993").
				Value(&f.imapPort).
				Validate(validatePort),
			huh.NewInput().
				Title("Username").
				Placeholder("user@example.com").
				Value(&f.imapUser),
			huh.NewConfirm().
				Title("Use TLS").
				Affirmative("Yes").
				Negative("No").
				Value(&f.imapTLS),
			huh.NewInput().
				Title("Poll interval (seconds)").
				Value(&f.imapPollSec).
				Validate(validatePositive("poll interval")),
		).Title("Mailbox"),
	).WithKeyMap(ui.FormKeyMap()).WithWidth(ui.FormWidth(m.width)).WithShowHelp(true)
}

// Config applies the form fields to the configuration the form started from.
// The fields are assumed valid.
func (m Model) Config() model.AppConfig {
	f := m.fields
	cfg := m.base
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(f.baseURL), "/")
	cfg.API.TimeoutSec, _ = strconv.Atoi(strings.TrimSpace(f.timeoutSec))
	cfg.Notify.IntervalSec, _ = strconv.Atoi(strings.TrimSpace(f.intervalSec))
	cfg.Notify.ToastMs, _ = strconv.Atoi(strings.TrimSpace(f.toastMs))
	cfg.Mailbox = model.MailboxConfig{
		Host:     strings.TrimSpace(f.imapHost),
		Port:     strings.TrimSpace(f.imapPort),
		Username: strings.TrimSpace(f.imapUser),
		TLS:      f.imapTLS,
	}
	cfg.Mailbox.PollSec, _ = strconv.Atoi(strings.TrimSpace(f.imapPollSec))
	return cfg
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		out := SavedMsg{Config: m.Config()}
		m.form = nil
		return m, func() tea.Msg { return out }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Settings"))
	b.WriteString("\n\n")
	if m.form != nil {
		b.WriteString(m.form.View())
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(ui.FormWidth(m.width))
	}
}


// --- Validators ---

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., http://localhost:8080/api)")
	}
	return nil
}

func validatePort(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("port is required")
	}
	for _, c := range strings.TrimSpace(s) {
		if c < '0' || c > '9' {
			return fmt.Errorf("port must be a number")
		}
	}
	return nil
}

func validatePositive(field string) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive number", field)
		}
		return nil
	}
}
