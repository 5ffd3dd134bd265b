package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/taskboard/internal/model"
)

func TestApply(t *testing.T) {
	t.Cleanup(func() { Apply(Light) })

	assert.Equal(t, Dark, Apply(Dark))
	assert.True(t, lipgloss.HasDarkBackground())

	assert.Equal(t, Light, Apply("solarized"))
	assert.False(t, lipgloss.HasDarkBackground())
}

func TestToggle(t *testing.T) {
	assert.Equal(t, Dark, Toggle(Light))
	assert.Equal(t, Light, Toggle(Dark))
	assert.Equal(t, Dark, Toggle(""))
}

func TestStatusAndPriorityStyles(t *testing.T) {
	assert.Equal(t, lipgloss.TerminalColor(ColorGreen), StatusStyle(model.StatusDone).GetForeground())
	assert.Equal(t, lipgloss.TerminalColor(ColorGray), StatusStyle(model.StatusArchived).GetForeground())
	assert.Equal(t, lipgloss.TerminalColor(ColorRed), PriorityStyle(model.PriorityCritical).GetForeground())
}

func TestToastStyle(t *testing.T) {
	assert.Equal(t, lipgloss.TerminalColor(ColorRed), ToastStyle(ToneError).GetBackground())
	assert.Equal(t, lipgloss.TerminalColor(ColorBlue), ToastStyle(ToneInfo).GetBackground())
	assert.Equal(t, lipgloss.TerminalColor(ColorGreen), ToastStyle(ToneSuccess).GetBackground())
}
