// Package dashboard renders the stats view from an aggregated snapshot.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/stats"
	"github.com/nhle/taskboard/internal/theme"
)

const barWidth = 30

// Model renders a stats.Snapshot.
type Model struct {
	gauge  progress.Model
	width  int
	height int
}

// New creates a dashboard model.
func New(width, height int) Model {
	g := progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth+6))
	return Model{gauge: g, width: width, height: height}
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders s. filtered is shown next to the counts that follow the
// current filter.
func (m Model) View(s stats.Snapshot, filtered bool) string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render("Status"),
		bar("To do", s.Todo, s.TodoPct, theme.ColorBlue),
		bar("Doing", s.Doing, s.DoingPct, theme.ColorYellow),
		bar("Done", s.Done, s.DonePct, theme.ColorGreen),
		theme.DimmedStyle.Render(fmt.Sprintf("%d tasks, %d archived", s.Total, s.Archived)),
		"",
		theme.TitleStyle.Render("Completion"),
		m.gauge.ViewAs(float64(s.Gauge)/100),
		"",
		theme.TitleStyle.Render("Deadlines"+scopeNote(filtered)),
		fmt.Sprintf("Due today  %d", s.DueToday),
		theme.OverdueStyle.Render(fmt.Sprintf("Overdue    %d", s.Overdue)),
		fmt.Sprintf("High tier  %d", s.HighTier),
	)

	right := lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render("Priorities"),
		priorities(s.ByPriority),
		"",
		theme.TitleStyle.Render("Top tags"),
		tags(s.Tags),
		"",
		theme.TitleStyle.Render("Created, last 7 days"),
		trend(s.Trend),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(barWidth+20).Render(left),
		"  ",
		right,
	)
	return theme.PanelStyle.Width(max(m.width-4, 20)).Render(body)
}

func scopeNote(filtered bool) string {
	if filtered {
		return " (filtered)"
	}
	return ""
}

func bar(label string, count, pct int, color lipgloss.TerminalColor) string {
	filled := pct * barWidth / 100
	b := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		theme.DimmedStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%-6s %s %3d%% (%d)", label, b, pct, count)
}

func priorities(by map[model.Priority]int) string {
	lines := make([]string, 0, len(model.Priorities))
	for i := len(model.Priorities) - 1; i >= 0; i-- {
		p := model.Priorities[i]
		lines = append(lines, theme.PriorityStyle(p).Render(fmt.Sprintf("%-9s", p))+fmt.Sprintf(" %d", by[p]))
	}
	return strings.Join(lines, "\n")
}

func tags(ts []stats.TagCount) string {
	if len(ts) == 0 {
		return theme.HelpStyle.Render("no tags")
	}
	lines := make([]string, len(ts))
	for i, tc := range ts {
		lines[i] = theme.TagStyle.Render("#"+tc.Tag) + fmt.Sprintf(" %d", tc.Count)
	}
	return strings.Join(lines, "\n")
}

func trend(points []stats.TrendPoint) string {
	peak := 0
	for _, p := range points {
		peak = max(peak, p.Count)
	}
	lines := make([]string, len(points))
	for i, p := range points {
		n := 0
		if peak > 0 {
			n = p.Count * 20 / peak
		}
		lines[i] = fmt.Sprintf("%5s %s %d", p.Label, theme.DueDateStyle.Render(strings.Repeat("▇", n)), p.Count)
	}
	return strings.Join(lines, "\n")
}
