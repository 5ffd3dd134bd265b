package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/filter"
	"github.com/nhle/taskboard/internal/model"
)

var now = time.Date(2024, time.March, 14, 15, 0, 0, 0, time.Local)

func withStatus(n int, s model.Status) []model.Task {
	out := make([]model.Task, n)
	for i := range out {
		out[i] = model.Task{Title: "t", Status: s, Priority: model.PriorityLow, CreatedAt: now}
	}
	return out
}

func TestAggregate_StatusPercentages(t *testing.T) {
	var tasks []model.Task
	tasks = append(tasks, withStatus(4, model.StatusTodo)...)
	tasks = append(tasks, withStatus(3, model.StatusDoing)...)
	tasks = append(tasks, withStatus(3, model.StatusDone)...)

	s := Aggregate(tasks, now)
	assert.Equal(t, 10, s.Total)
	assert.Equal(t, 4, s.Todo)
	assert.Equal(t, 40, s.TodoPct)
	assert.Equal(t, 30, s.DoingPct)
	assert.Equal(t, 30, s.DonePct)
	assert.Equal(t, 30, s.Gauge)
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, now)

	assert.Zero(t, s.Total)
	assert.Zero(t, s.TodoPct)
	assert.Zero(t, s.DoingPct)
	assert.Zero(t, s.DonePct)
	assert.Zero(t, s.Gauge)
	assert.Empty(t, s.Tags)
	assert.Len(t, s.Trend, TrendDays)
	for _, p := range model.Priorities {
		v, ok := s.ByPriority[p]
		assert.True(t, ok)
		assert.Zero(t, v)
	}
}

func TestPercent_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 13, Percent(1, 8))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 100, Percent(5, 5))
	assert.Equal(t, 0, Percent(3, 0))
}

func TestAggregate_PriorityCounts(t *testing.T) {
	tasks := []model.Task{
		{Priority: model.PriorityHigh},
		{Priority: model.PriorityHigh},
		{Priority: model.PriorityCritical},
		{Priority: model.PriorityLow},
	}

	s := Aggregate(tasks, now)
	assert.Equal(t, 1, s.ByPriority[model.PriorityLow])
	assert.Equal(t, 0, s.ByPriority[model.PriorityMedium])
	assert.Equal(t, 2, s.ByPriority[model.PriorityHigh])
	assert.Equal(t, 1, s.ByPriority[model.PriorityCritical])
	assert.Equal(t, 3, s.HighTier)
}

func TestTopTagCounts(t *testing.T) {
	tasks := []model.Task{
		{Tags: []string{"ui", "ui", "api"}},
		{Tags: []string{"ui"}},
	}

	got := TopTagCounts(tasks, TopTags)
	require.Len(t, got, 2)
	assert.Equal(t, TagCount{Tag: "ui", Count: 3}, got[0])
	assert.Equal(t, TagCount{Tag: "api", Count: 1}, got[1])
}

func TestTopTagCounts_CountsEveryInstance(t *testing.T) {
	tasks := []model.Task{
		{Tags: []string{"", "ui"}},
		{Tags: []string{""}},
	}

	got := TopTagCounts(tasks, TopTags)
	require.Len(t, got, 2)
	assert.Equal(t, TagCount{Tag: "", Count: 2}, got[0])
	assert.Equal(t, TagCount{Tag: "ui", Count: 1}, got[1])
}

func TestTopTagCounts_TiesKeepFirstSeenOrderAndTruncate(t *testing.T) {
	tasks := []model.Task{
		{Tags: []string{"g", "f", "e", "d", "c", "b", "a"}},
		{Tags: []string{"a"}},
	}

	got := TopTagCounts(tasks, TopTags)
	require.Len(t, got, TopTags)
	assert.Equal(t, "a", got[0].Tag)
	var rest []string
	for _, tc := range got[1:] {
		rest = append(rest, tc.Tag)
	}
	assert.Equal(t, []string{"g", "f", "e", "d", "c"}, rest)
}

func TestCreationTrend(t *testing.T) {
	tasks := []model.Task{
		{CreatedAt: now},
		{CreatedAt: now.Add(-2 * time.Hour)},
		{CreatedAt: now.AddDate(0, 0, -6)},
		{CreatedAt: now.AddDate(0, 0, -7)},
		{},
	}

	trend := CreationTrend(tasks, now, TrendDays)
	require.Len(t, trend, 7)
	assert.Equal(t, "3/8", trend[0].Label)
	assert.Equal(t, 1, trend[0].Count)
	assert.Equal(t, "3/14", trend[6].Label)
	assert.Equal(t, 2, trend[6].Count)

	total := 0
	for _, p := range trend {
		total += p.Count
	}
	assert.Equal(t, 3, total, "tasks outside the window and zero timestamps are ignored")
}

func TestCreationTrend_CrossesMonthBoundary(t *testing.T) {
	first := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.Local)

	trend := CreationTrend(nil, first, TrendDays)
	assert.Equal(t, "2/25", trend[0].Label, "2024 is a leap year")
	assert.Equal(t, "3/2", trend[6].Label)
}

func TestAggregate_OverdueAndDueToday(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	tasks := []model.Task{
		{ID: 1, Status: model.StatusTodo, DueAt: &yesterday},
		{ID: 2, Status: model.StatusDone, DueAt: &yesterday},
		{ID: 3, Status: model.StatusDoing, DueAt: &later},
		{ID: 4, Status: model.StatusTodo, DueAt: &earlier},
		{ID: 5, Status: model.StatusTodo, DueAt: &now},
	}

	s := Aggregate(tasks, now)
	assert.Equal(t, 2, s.Overdue, "a deadline equal to now is not overdue")
	assert.Equal(t, 3, s.DueToday)
}

func TestDashboard_UsesVisibleSetForDeadlineCounts(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	all := []model.Task{
		{ID: 1, Status: model.StatusTodo, Priority: model.PriorityHigh, DueAt: &yesterday},
		{ID: 2, Status: model.StatusDone, Priority: model.PriorityLow},
		{ID: 3, Status: model.StatusDoing, Priority: model.PriorityLow, DueAt: &yesterday},
	}
	st := model.StatusDone
	visible := filter.Apply(all, filter.Criteria{Status: &st}, now)

	s := Dashboard(all, visible, now)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 33, s.DonePct)
	assert.Equal(t, 0, s.Overdue)
	assert.Equal(t, 0, s.HighTier)
	assert.Equal(t, 1, s.ByPriority[model.PriorityHigh])
}

func TestBoard(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Status: model.StatusDoing},
		{ID: 2, Status: model.StatusTodo},
		{ID: 3, Status: model.StatusArchived},
		{ID: 4, Status: model.StatusDoing},
		{ID: 5, Status: model.StatusDone},
	}

	c := Board(tasks)
	require.Len(t, c.Todo, 1)
	require.Len(t, c.Doing, 2)
	require.Len(t, c.Done, 1)
	assert.Equal(t, int64(1), c.Doing[0].ID)
	assert.Equal(t, int64(4), c.Doing[1].ID)
}
