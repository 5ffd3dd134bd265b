package filter

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nhle/taskboard/internal/model"
)

var titles = []string{"Fix bug", "Write docs", "Ship release", "Review PR", "Plan sprint"}

// tasksFromSeeds builds a deterministic task list where each seed picks the
// status, priority, title and due offset of one task.
func tasksFromSeeds(seeds []int) []model.Task {
	out := make([]model.Task, 0, len(seeds))
	for i, s := range seeds {
		t := model.Task{
			ID:        int64(i + 1),
			Title:     titles[s%len(titles)],
			Status:    model.Statuses[s%len(model.Statuses)],
			Priority:  model.Priorities[(s/4)%len(model.Priorities)],
			CreatedAt: now,
		}
		if s%3 != 0 {
			due := now.Add(time.Duration(s%72-36) * time.Hour)
			t.DueAt = &due
		}
		out = append(out, t)
	}
	return out
}

func criteriaFromSeed(s int) Criteria {
	c := Criteria{}
	if s&1 != 0 {
		c.Keyword = []string{"bug", "DOCS", "re", "zzz"}[(s>>4)%4]
	}
	if s&2 != 0 {
		st := model.Statuses[(s>>6)%len(model.Statuses)]
		c.Status = &st
	}
	if s&4 != 0 {
		c.Tier = TierHigh
	}
	if s&8 != 0 {
		c.DueToday = true
	}
	return c
}

func isSubsequence(sub, full []model.Task) bool {
	j := 0
	for i := 0; i < len(full) && j < len(sub); i++ {
		if reflect.DeepEqual(full[i], sub[j]) {
			j++
		}
	}
	return j == len(sub)
}

func TestProperty_Apply(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	seeds := gen.SliceOf(gen.IntRange(0, 1000))

	properties.Property("result is an order-preserving subsequence", prop.ForAll(
		func(ss []int, cs int) bool {
			tasks := tasksFromSeeds(ss)
			return isSubsequence(Apply(tasks, criteriaFromSeed(cs), now), tasks)
		},
		seeds, gen.IntRange(0, 1023),
	))

	properties.Property("zero criteria is the identity", prop.ForAll(
		func(ss []int) bool {
			tasks := tasksFromSeeds(ss)
			return reflect.DeepEqual(Apply(tasks, Criteria{}, now), tasks)
		},
		seeds,
	))

	properties.Property("apply is idempotent", prop.ForAll(
		func(ss []int, cs int) bool {
			c := criteriaFromSeed(cs)
			once := Apply(tasksFromSeeds(ss), c, now)
			return reflect.DeepEqual(Apply(once, c, now), once)
		},
		seeds, gen.IntRange(0, 1023),
	))

	properties.Property("every kept task matches", prop.ForAll(
		func(ss []int, cs int) bool {
			c := criteriaFromSeed(cs)
			for _, task := range Apply(tasksFromSeeds(ss), c, now) {
				if !c.Match(task, now) {
					return false
				}
			}
			return true
		},
		seeds, gen.IntRange(0, 1023),
	))

	properties.TestingRun(t)
}
