package tasklist

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/filter"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNextStatusFilter_Cycles(t *testing.T) {
	var cur *model.Status
	var seen []string
	for range 5 {
		cur = NextStatusFilter(cur)
		if cur == nil {
			seen = append(seen, "any")
		} else {
			seen = append(seen, string(*cur))
		}
	}
	assert.Equal(t, []string{"TODO", "DOING", "DONE", "ARCHIVED", "any"}, seen)
}

func TestFilterKeys(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)

	m, _ = m.Update(runes("1"))
	require.NotNil(t, m.Criteria().Status)
	assert.Equal(t, model.StatusTodo, *m.Criteria().Status)

	m, _ = m.Update(runes("2"))
	assert.Equal(t, filter.TierHigh, m.Criteria().Tier)

	m, _ = m.Update(runes("3"))
	assert.True(t, m.Criteria().DueToday)
	assert.Equal(t, `filter: status To do, high priority, due today`, m.FilterSummary())

	m, _ = m.Update(runes("0"))
	assert.True(t, m.Criteria().IsZero())
	assert.Empty(t, m.FilterSummary())
}

func TestSearch_UpdatesKeywordWhileTyping(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)

	m, _ = m.Update(runes("/"))
	require.True(t, m.Searching())

	m, _ = m.Update(runes("b"))
	m, _ = m.Update(runes("u"))
	m, _ = m.Update(runes("g"))
	assert.Equal(t, "bug", m.Criteria().Keyword)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Searching())
	assert.Equal(t, "bug", m.Criteria().Keyword)

	m, _ = m.Update(runes("/"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.Criteria().Keyword)
}

func TestSetTasksAndSelect(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	_, ok := m.Selected()
	assert.False(t, ok)

	tasks := []model.Task{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}
	m.SetTasks(tasks, 5)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), sel.ID)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(SelectedTaskMsg)
	require.True(t, ok)
	assert.Equal(t, int64(1), msg.Task.ID)
}

func TestRenderRow_FlagsOverdue(t *testing.T) {
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)

	row := renderRow(model.Task{Title: "late", Status: model.StatusTodo, Priority: model.PriorityHigh, DueAt: &yesterday}, false, now)
	assert.Contains(t, row, "OVERDUE")
	assert.Contains(t, row, "P2")

	row = renderRow(model.Task{Title: "late", Status: model.StatusDone, DueAt: &yesterday}, false, now)
	assert.NotContains(t, row, "OVERDUE")
}

func TestRenderRow_ElidesTags(t *testing.T) {
	row := renderRow(model.Task{Title: "t", Tags: []string{"a", "b", "c", "d"}}, false, time.Now())
	assert.Contains(t, row, "#c")
	assert.NotContains(t, row, "#d")
	assert.Contains(t, row, "…")
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	assert.Empty(t, relativeTime(time.Time{}, now))
	assert.Equal(t, "2 hours ago", relativeTime(now.Add(-2*time.Hour), now))
}
