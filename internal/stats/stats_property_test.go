package stats

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nhle/taskboard/internal/model"
)

var tagPool = []string{"ui", "api", "db", "infra", "docs", "qa", "ops", "perf"}

func tasksFromSeeds(seeds []int) []model.Task {
	out := make([]model.Task, 0, len(seeds))
	for i, s := range seeds {
		t := model.Task{
			ID:        int64(i + 1),
			Title:     "task",
			Status:    model.Statuses[s%len(model.Statuses)],
			Priority:  model.Priorities[(s/4)%len(model.Priorities)],
			CreatedAt: now.AddDate(0, 0, -(s % 10)),
		}
		for j := 0; j < s%4; j++ {
			t.Tags = append(t.Tags, tagPool[(s+j*3)%len(tagPool)])
		}
		if s%2 == 0 {
			due := now.Add(time.Duration(s%96-48) * time.Hour)
			t.DueAt = &due
		}
		out = append(out, t)
	}
	return out
}

func TestProperty_Aggregate(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	seeds := gen.SliceOf(gen.IntRange(0, 500))

	properties.Property("status counts sum to total", prop.ForAll(
		func(ss []int) bool {
			s := Aggregate(tasksFromSeeds(ss), now)
			return s.Todo+s.Doing+s.Done+s.Archived == s.Total && s.Total == len(ss)
		},
		seeds,
	))

	properties.Property("priority counts sum to total", prop.ForAll(
		func(ss []int) bool {
			s := Aggregate(tasksFromSeeds(ss), now)
			sum := 0
			for _, n := range s.ByPriority {
				sum += n
			}
			return sum == s.Total && len(s.ByPriority) == len(model.Priorities)
		},
		seeds,
	))

	properties.Property("percentages stay within bounds", prop.ForAll(
		func(ss []int) bool {
			s := Aggregate(tasksFromSeeds(ss), now)
			for _, p := range []int{s.TodoPct, s.DoingPct, s.DonePct} {
				if p < 0 || p > 100 {
					return false
				}
			}
			if s.Total == 0 {
				return s.TodoPct == 0 && s.DoingPct == 0 && s.DonePct == 0
			}
			return s.Gauge == s.DonePct
		},
		seeds,
	))

	properties.Property("tag table is bounded and sorted", prop.ForAll(
		func(ss []int) bool {
			tags := Aggregate(tasksFromSeeds(ss), now).Tags
			if len(tags) > TopTags {
				return false
			}
			for i := 1; i < len(tags); i++ {
				if tags[i-1].Count < tags[i].Count {
					return false
				}
			}
			return true
		},
		seeds,
	))

	properties.Property("trend always has seven days", prop.ForAll(
		func(ss []int) bool {
			return len(Aggregate(tasksFromSeeds(ss), now).Trend) == TrendDays
		},
		seeds,
	))

	properties.Property("board lanes partition non-archived tasks", prop.ForAll(
		func(ss []int) bool {
			tasks := tasksFromSeeds(ss)
			c := Board(tasks)
			s := Aggregate(tasks, now)
			return len(c.Todo) == s.Todo && len(c.Doing) == s.Doing && len(c.Done) == s.Done
		},
		seeds,
	))

	properties.TestingRun(t)
}
