// Package theme holds the palette and the shared lipgloss styles. Colors are
// adaptive, so switching between light and dark only flips which half of each
// pair lipgloss picks.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/model"
)

// Palette, as (dark terminal, light terminal) pairs.
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Theme names accepted by Apply.
const (
	Light = "light"
	Dark  = "dark"
)

// Apply switches the adaptive palette to the named theme. Unknown names fall
// back to light. It returns the name actually applied.
func Apply(name string) string {
	if name != Dark {
		name = Light
	}
	lipgloss.SetHasDarkBackground(name == Dark)
	return name
}

// Toggle returns the theme opposite to name.
func Toggle(name string) string {
	if name == Dark {
		return Light
	}
	return Dark
}

var (
	// Frame.
	HeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite).Background(ColorBlue).Padding(0, 1)
	StatusBarStyle = lipgloss.NewStyle().Foreground(ColorWhite).Background(ColorSubtle).Padding(0, 1)
	PanelStyle     = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder)
	BorderStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder)

	// Lists.
	ListItemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	SelectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Bold(true).
				Foreground(ColorBlue).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorBlue)

	// Text.
	TitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite).MarginBottom(1)
	DetailLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue)
	HelpStyle        = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)
	DimmedStyle      = lipgloss.NewStyle().Foreground(ColorGray)
	OverdueStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	DueDateStyle     = lipgloss.NewStyle().Foreground(ColorYellow)
	TagStyle         = lipgloss.NewStyle().Foreground(ColorMagenta)
)

var statusColors = map[model.Status]lipgloss.AdaptiveColor{
	model.StatusTodo:  ColorBlue,
	model.StatusDoing: ColorYellow,
	model.StatusDone:  ColorGreen,
}

var priorityColors = map[model.Priority]lipgloss.AdaptiveColor{
	model.PriorityCritical: ColorRed,
	model.PriorityHigh:     ColorOrange,
	model.PriorityMedium:   ColorYellow,
	model.PriorityLow:      ColorBlue,
}

// StatusStyle returns the badge style for a task status. Archived and
// unknown statuses are gray.
func StatusStyle(s model.Status) lipgloss.Style {
	c, ok := statusColors[s]
	if !ok {
		c = ColorGray
	}
	return lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(c)
}

// PriorityStyle returns the text style for a priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	c, ok := priorityColors[p]
	if !ok {
		c = ColorGray
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// Tone picks the toast banner color.
type Tone int

const (
	ToneSuccess Tone = iota
	ToneError
	ToneInfo
)

// ToastStyle returns the status bar banner for a toast of tone t.
func ToastStyle(t Tone) lipgloss.Style {
	bg := ColorGreen
	switch t {
	case ToneError:
		bg = ColorRed
	case ToneInfo:
		bg = ColorBlue
	}
	return lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(ColorWhite).Background(bg)
}
