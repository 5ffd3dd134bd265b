package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// maxTags is how many tags a row shows before eliding the rest.
const maxTags = 3

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{string(i.Task.Status), string(i.Task.Priority)}
	if rel := relativeTime(i.Task.CreatedAt, time.Now()); rel != "" {
		parts = append(parts, rel)
	}
	return strings.Join(parts, " | ")
}

// TaskDelegate implements list.ItemDelegate for rendering task rows.
type TaskDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	now := time.Now()
	if d.now != nil {
		now = d.now()
	}
	fmt.Fprint(w, renderRow(ti.Task, index == m.Index(), now))
}

func renderRow(t model.Task, selected bool, now time.Time) string {
	prefix := "○"
	switch t.Status {
	case model.StatusDoing:
		prefix = "◐"
	case model.StatusDone:
		prefix = "✓"
	case model.StatusArchived:
		prefix = "▪"
	}

	statusBadge := theme.StatusStyle(t.Status).Render(t.Status.Label())
	priBadge := theme.PriorityStyle(t.Priority).Render(priorityLabel(t.Priority))

	tagBadge := ""
	if len(t.Tags) > 0 {
		display := t.Tags
		if len(display) > maxTags {
			display = append(append([]string{}, display[:maxTags]...), "…")
		}
		tagBadge = theme.TagStyle.Render(" #" + strings.Join(display, " #"))
	}

	dueStr := ""
	if t.DueAt != nil {
		dueStr = theme.DueDateStyle.Render(" " + t.DueAt.Local().Format("Jan 02 15:04"))
	}
	overdueStr := ""
	if t.IsOverdue(now) {
		overdueStr = theme.OverdueStyle.Render(" OVERDUE")
	}

	created := ""
	if rel := relativeTime(t.CreatedAt, now); rel != "" {
		created = theme.DimmedStyle.Render("  " + rel)
	}

	line := fmt.Sprintf("%s %s %s %s%s%s%s%s",
		prefix, statusBadge, priBadge, t.Title, tagBadge, dueStr, overdueStr, created)

	if t.Status == model.StatusDone || t.Archived {
		line = theme.DimmedStyle.Render(line)
	}
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// priorityLabel returns a short label for the given priority level.
func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityCritical:
		return "P1"
	case model.PriorityHigh:
		return "P2"
	case model.PriorityMedium:
		return "P3"
	case model.PriorityLow:
		return "P4"
	default:
		return "P?"
	}
}
