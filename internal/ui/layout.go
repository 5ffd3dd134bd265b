package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/notify"
	"github.com/nhle/taskboard/internal/theme"
)

// Layout splits the terminal into a one-line header, the content area and a
// one-line status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout for a terminal of the given size.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows left between the header and the status bar.
func (l Layout) ContentHeight() int {
	return max(l.Height-2, 0)
}

// bar renders left and right on one line of style, padding the middle so
// the line spans the terminal. Text wider than the terminal is cut.
func (l Layout) bar(style lipgloss.Style, left, right string) string {
	leftRendered := style.Render(left)
	rightRendered := ""
	if right != "" {
		rightRendered = style.Render(right)
	}

	gap := l.Width - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered)
	filler := style.Width(max(gap, 0)).Padding(0).Render("")

	line := lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, filler, rightRendered)
	return lipgloss.NewStyle().MaxWidth(l.Width).Render(line)
}

// RenderHeader renders the title on the left and account or sync state on
// the right.
func (l Layout) RenderHeader(title, right string) string {
	return l.bar(theme.HeaderStyle, title, right)
}

// RenderStatusBar renders the key hints, or the toast while one is showing.
func (l Layout) RenderStatusBar(hints string, toast *notify.Toast) string {
	if toast != nil {
		return l.bar(theme.ToastStyle(tone(toast.Kind)), toast.Text, "")
	}
	return l.bar(theme.StatusBarStyle, hints, "")
}

// RenderWithFrame stacks header, content and status bar. The content is
// padded or clipped to ContentHeight so the status bar stays on the last row.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	body := lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func tone(k notify.Kind) theme.Tone {
	switch k {
	case notify.KindError:
		return theme.ToneError
	case notify.KindInfo:
		return theme.ToneInfo
	}
	return theme.ToneSuccess
}
