package plans

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
)

// Plan is a membership tier.
type Plan struct {
	ID    string
	Name  string
	Price int
	Desc  string
}

// Catalog lists the plans in display order.
var Catalog = []Plan{
	{ID: "free", Name: "Free", Price: 0, Desc: "Core features for a single user"},
	{ID: "plus", Name: "Plus", Price: 29, Desc: "Advanced filters, notifications, export"},
	{ID: "pro", Name: "Pro", Price: 299, Desc: "Team collaboration, board sync, unlimited projects"},
}

// Payment methods offered at checkout.
const (
	MethodAlipay = "alipay"
	MethodVisa   = "visa"
	MethodBTC    = "btc"
	MethodETH    = "eth"
)

// MethodLabel returns the display name of a payment method.
func MethodLabel(method string) string {
	switch method {
	case MethodAlipay:
		return "Alipay"
	case MethodVisa:
		return "VISA"
	case MethodBTC:
		return "BTC"
	case MethodETH:
		return "Ethereum"
	default:
		return method
	}
}

// CheckoutMsg is sent when the user picks a payment method for a plan.
type CheckoutMsg struct {
	Plan   Plan
	Method string
}

type formBindings struct {
	method string
}

// Model is the pricing view with a mock checkout.
type Model struct {
	keys     *keys.KeyMap
	cursor   int
	selected string
	form     *huh.Form
	fb       *formBindings
	width    int
	height   int
}

// New creates the plans view with Free selected.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, selected: Catalog[0].ID, fb: &formBindings{}, width: width, height: height}
}

// Selected returns the id of the chosen plan.
func (m Model) Selected() string {
	return m.selected
}

// InForm reports whether the payment picker is open.
func (m Model) InForm() bool {
	return m.form != nil
}

// Update handles navigation and the payment picker.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Down), key.Matches(km, m.keys.Right):
		m.cursor = (m.cursor + 1) % len(Catalog)
	case key.Matches(km, m.keys.Up), key.Matches(km, m.keys.Left):
		m.cursor = (m.cursor + len(Catalog) - 1) % len(Catalog)
	case key.Matches(km, m.keys.Select):
		m.selected = Catalog[m.cursor].ID
		m.fb.method = MethodAlipay
		m.form = m.buildForm()
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	plan := Catalog[m.cursor]
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Pay for %s (US$%d/month)", plan.Name, plan.Price)).
				Description("Demo checkout, no payment is made.").
				Options(
					huh.NewOption(MethodLabel(MethodAlipay), MethodAlipay),
					huh.NewOption(MethodLabel(MethodVisa), MethodVisa),
					huh.NewOption(MethodLabel(MethodBTC), MethodBTC),
					huh.NewOption(MethodLabel(MethodETH), MethodETH),
				).
				Value(&m.fb.method),
		),
	).WithKeyMap(ui.FormKeyMap()).WithWidth(max(min(m.width-4, 80), 40))
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		out := CheckoutMsg{Plan: Catalog[m.cursor], Method: m.fb.method}
		return m, func() tea.Msg { return out }
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// View renders the plan cards or the payment picker.
func (m Model) View() string {
	if m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	cards := make([]string, len(Catalog))
	for i, p := range Catalog {
		var b strings.Builder
		name := p.Name
		if p.ID == m.selected {
			name += " ✓"
		}
		b.WriteString(theme.TitleStyle.Render(name))
		b.WriteString("\n")
		price := fmt.Sprintf("US$%d", p.Price)
		if p.Price > 0 {
			price += " / month"
		}
		b.WriteString(price + "\n\n")
		b.WriteString(theme.DimmedStyle.Render(p.Desc))

		style := theme.BorderStyle.Width(28).Padding(0, 1)
		if i == m.cursor {
			style = style.BorderForeground(theme.ColorBlue)
		}
		cards[i] = style.Render(b.String())
	}

	footer := theme.HelpStyle.Render("enter checkout | Alipay / VISA / BTC / ETH accepted (demo)")
	current := "Current plan: " + strings.ToUpper(m.selected)
	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		current, "", lipgloss.JoinHorizontal(lipgloss.Top, cards...), "", footer))
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
