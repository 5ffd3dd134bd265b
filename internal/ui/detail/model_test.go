package detail

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
)

func TestDetail_RendersTask(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	assert.Contains(t, m.View(), "No task selected")

	due := time.Date(2024, 3, 14, 9, 0, 0, 0, time.Local)
	m.SetTask(model.Task{ID: 1, Title: "Write docs", Status: model.StatusDoing, Priority: model.PriorityHigh, DueAt: &due, Tags: []string{"docs"}})

	out := m.View()
	assert.Contains(t, out, "Write docs")
	assert.Contains(t, out, "2024-03-14 09:00")
	assert.Contains(t, out, "docs")
	assert.Contains(t, out, "No description")
}

func TestDetail_RefreshOnlySameTask(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetTask(model.Task{ID: 1, Title: "a"})

	m.Refresh(model.Task{ID: 2, Title: "other"})
	got, _ := m.Task()
	assert.Equal(t, "a", got.Title)

	m.Refresh(model.Task{ID: 1, Title: "b"})
	got, ok := m.Task()
	require.True(t, ok)
	assert.Equal(t, "b", got.Title)
}

func TestDetail_EscGoesBack(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, BackMsg{}, cmd())
}
