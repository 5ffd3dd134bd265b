// Package stats derives dashboard figures from a task list.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/nhle/taskboard/internal/filter"
	"github.com/nhle/taskboard/internal/model"
)

const (
	// TopTags is the number of entries kept in the tag table.
	TopTags = 6
	// TrendDays is the length of the creation trend window.
	TrendDays = 7
)

// TagCount is one row of the tag frequency table.
type TagCount struct {
	Tag   string
	Count int
}

// TrendPoint is the number of tasks created on one calendar day.
type TrendPoint struct {
	Day   time.Time
	Label string
	Count int
}

// Snapshot holds every derived figure shown on the dashboard.
type Snapshot struct {
	Total int
	Todo  int
	Doing int
	Done  int

	// Archived tasks are counted but have no percentage.
	Archived int

	TodoPct  int
	DoingPct int
	DonePct  int

	// Gauge is the completion percentage.
	Gauge int

	// HighTier counts HIGH and CRITICAL tasks.
	HighTier int

	// ByPriority has an entry for every priority, zero when absent.
	ByPriority map[model.Priority]int

	// Tags is sorted by count descending, ties in first-seen order.
	Tags []TagCount

	// Trend covers the last TrendDays days, oldest first.
	Trend []TrendPoint

	DueToday int
	Overdue  int
}

// Percent returns count as a share of total, rounded half up. It returns 0
// when total is 0.
func Percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return (count*200 + total) / (total * 2)
}

// Aggregate computes every figure over the same task set.
func Aggregate(tasks []model.Task, now time.Time) Snapshot {
	s := Snapshot{
		Total:      len(tasks),
		ByPriority: make(map[model.Priority]int, len(model.Priorities)),
	}
	for _, p := range model.Priorities {
		s.ByPriority[p] = 0
	}

	for _, t := range tasks {
		switch t.Status {
		case model.StatusTodo:
			s.Todo++
		case model.StatusDoing:
			s.Doing++
		case model.StatusDone:
			s.Done++
		case model.StatusArchived:
			s.Archived++
		}
		if t.Priority.Valid() {
			s.ByPriority[t.Priority]++
		}
	}

	s.TodoPct = Percent(s.Todo, s.Total)
	s.DoingPct = Percent(s.Doing, s.Total)
	s.DonePct = Percent(s.Done, s.Total)
	s.Gauge = s.DonePct

	s.Tags = TopTagCounts(tasks, TopTags)
	s.Trend = CreationTrend(tasks, now, TrendDays)
	s.DueToday, s.Overdue, s.HighTier = deadlineCounts(tasks, now)
	return s
}

// Dashboard computes status, priority, tag and trend figures over all tasks
// while due-today, overdue and high-tier counts follow the visible
// (filtered) tasks.
func Dashboard(all, visible []model.Task, now time.Time) Snapshot {
	s := Aggregate(all, now)
	s.DueToday, s.Overdue, s.HighTier = deadlineCounts(visible, now)
	return s
}

func deadlineCounts(tasks []model.Task, now time.Time) (dueToday, overdue, high int) {
	for _, t := range tasks {
		if filter.DueOn(t, now) {
			dueToday++
		}
		if t.IsOverdue(now) {
			overdue++
		}
		if t.Priority.IsHighTier() {
			high++
		}
	}
	return dueToday, overdue, high
}

// TopTagCounts counts each tag instance and returns at most limit entries.
func TopTagCounts(tasks []model.Task, limit int) []TagCount {
	index := make(map[string]int)
	var counts []TagCount
	for _, t := range tasks {
		for _, tag := range t.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(counts)
				index[tag] = i
				counts = append(counts, TagCount{Tag: tag})
			}
			counts[i].Count++
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// CreationTrend returns one point per calendar day for the days ending at
// now (inclusive), oldest first.
func CreationTrend(tasks []model.Task, now time.Time, days int) []TrendPoint {
	local := now.Local()
	y, m, d := local.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.Local)

	points := make([]TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		p := TrendPoint{Day: day, Label: fmt.Sprintf("%d/%d", int(day.Month()), day.Day())}
		for _, t := range tasks {
			if !t.CreatedAt.IsZero() && filter.SameDay(t.CreatedAt, day) {
				p.Count++
			}
		}
		points = append(points, p)
	}
	return points
}

// Columns groups tasks into kanban lanes.
type Columns struct {
	Todo  []model.Task
	Doing []model.Task
	Done  []model.Task
}

// Board splits tasks by status, preserving order. Archived tasks are left out.
func Board(tasks []model.Task) Columns {
	var c Columns
	for _, t := range tasks {
		switch t.Status {
		case model.StatusTodo:
			c.Todo = append(c.Todo, t)
		case model.StatusDoing:
			c.Doing = append(c.Doing, t)
		case model.StatusDone:
			c.Done = append(c.Done, t)
		}
	}
	return c
}
