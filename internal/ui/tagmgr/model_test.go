package tagmgr

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/stats"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sample() []model.Task {
	return []model.Task{
		{ID: 1, Tags: []string{"ui", "api"}},
		{ID: 2, Tags: []string{"api"}},
		{ID: 3, Tags: []string{"api", "docs"}},
	}
}

func newModel(active string) Model {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetTasks(sample(), active)
	return m
}

func TestSetTasks_CountsEveryTag(t *testing.T) {
	m := newModel("")
	assert.Equal(t, []stats.TagCount{{Tag: "api", Count: 3}, {Tag: "ui", Count: 1}, {Tag: "docs", Count: 1}}, m.Tags())
	assert.Contains(t, m.View(), "#api")
}

func TestSetTasks_EmptyProject(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetTasks(nil, "")
	assert.Contains(t, m.View(), "No tags in this project yet.")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestEnter_ChoosesTag(t *testing.T) {
	m := newModel("")
	m, _ = m.Update(runes("j"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ChosenMsg{Tag: "ui"}, cmd())
}

func TestEnter_OnActiveTagClearsFilter(t *testing.T) {
	m := newModel("API")
	assert.Contains(t, m.View(), "#api (filtering)")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ChosenMsg{}, cmd())
}

func TestEdit_OpensRenameForm(t *testing.T) {
	m := newModel("")

	m, _ = m.Update(runes("e"))
	assert.True(t, m.Editing())
	assert.Equal(t, "api", m.fb.name)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Editing())
}

func TestDelete_OpensConfirm(t *testing.T) {
	m := newModel("")

	m, _ = m.Update(runes("d"))
	assert.True(t, m.Editing())
	assert.Contains(t, m.View(), `Remove tag "api"?`)
}

func TestValidateTag(t *testing.T) {
	assert.EqualError(t, ValidateTag("  "), "name is required")
	assert.EqualError(t, ValidateTag("a,b"), "tags cannot contain commas")
	assert.NoError(t, ValidateTag("backend"))
}

func TestEsc_Closes(t *testing.T) {
	m := newModel("")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, CloseMsg{}, cmd())
}
