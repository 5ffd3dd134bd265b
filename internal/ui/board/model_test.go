package board

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/ui/tasklist"
)

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sample() []model.Task {
	return []model.Task{
		{ID: 1, Title: "one", Status: model.StatusTodo},
		{ID: 2, Title: "two", Status: model.StatusDoing},
		{ID: 3, Title: "three", Status: model.StatusTodo},
		{ID: 4, Title: "gone", Status: model.StatusArchived},
	}
}

func TestBoard_Navigation(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 90, 20)
	m.SetTasks(sample())

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), sel.ID)

	m, _ = m.Update(press("j"))
	sel, _ = m.Selected()
	assert.Equal(t, int64(3), sel.ID)

	m, _ = m.Update(press("l"))
	sel, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), sel.ID, "row clamps to the shorter column")

	m, _ = m.Update(press("l"))
	_, ok = m.Selected()
	assert.False(t, ok, "done column is empty")

	m, _ = m.Update(press("l"))
	sel, _ = m.Selected()
	assert.Equal(t, int64(1), sel.ID, "wraps back to the first column")
}

func TestBoard_EnterOpensCard(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 90, 20)
	m.SetTasks(sample())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(tasklist.SelectedTaskMsg)
	require.True(t, ok)
	assert.Equal(t, int64(1), msg.Task.ID)
}

func TestBoard_ViewShowsCounts(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 90, 20)
	m.SetTasks(sample())

	out := m.View()
	assert.Contains(t, out, "To do (2)")
	assert.Contains(t, out, "Doing (1)")
	assert.Contains(t, out, "Done (0)")
	assert.NotContains(t, out, "gone")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
