// Package filter narrows a task list down to the tasks matching a set of
// user-selected criteria.
package filter

import (
	"strings"
	"time"

	"github.com/nhle/taskboard/internal/model"
)

// Tier selects tasks by priority band.
type Tier int

const (
	// TierAll applies no priority restriction.
	TierAll Tier = iota
	// TierHigh keeps HIGH and CRITICAL tasks.
	TierHigh
)

// String returns the label shown in the filter bar.
func (t Tier) String() string {
	if t == TierHigh {
		return "high+"
	}
	return "all"
}

// Criteria is the set of active filters. The zero value matches everything.
type Criteria struct {
	// Keyword is matched case-insensitively against title and description.
	Keyword string

	// Status, when set, requires an exact status match.
	Status *model.Status

	Tier Tier

	// DueToday keeps only tasks due on the current local calendar day.
	DueToday bool

	// Tag, when set, requires a case-insensitive match on one of the tags.
	Tag string
}

// IsZero reports whether no filter is active.
func (c Criteria) IsZero() bool {
	return c.Keyword == "" && c.Status == nil && c.Tier == TierAll && !c.DueToday && c.Tag == ""
}

// Reset clears every filter.
func (c *Criteria) Reset() {
	*c = Criteria{}
}

// WithStatus returns a copy of c filtering on s. A nil s clears the status filter.
func (c Criteria) WithStatus(s *model.Status) Criteria {
	if s != nil {
		v := *s
		s = &v
	}
	c.Status = s
	return c
}

// Match reports whether t satisfies every active predicate in c.
func (c Criteria) Match(t model.Task, now time.Time) bool {
	if c.Keyword != "" {
		haystack := strings.ToLower(t.Title + " " + t.Description)
		if !strings.Contains(haystack, strings.ToLower(c.Keyword)) {
			return false
		}
	}
	if c.Status != nil && t.Status != *c.Status {
		return false
	}
	if c.Tier == TierHigh && !t.Priority.IsHighTier() {
		return false
	}
	if c.DueToday && !DueOn(t, now) {
		return false
	}
	if c.Tag != "" && !HasTag(t, c.Tag) {
		return false
	}
	return true
}

// HasTag reports whether t carries tag, ignoring case.
func HasTag(t model.Task, tag string) bool {
	for _, have := range t.Tags {
		if strings.EqualFold(have, tag) {
			return true
		}
	}
	return false
}

// Apply returns the tasks matching c in their original order. The input
// slice is never modified.
func Apply(tasks []model.Task, c Criteria, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Match(t, now) {
			out = append(out, t)
		}
	}
	return out
}

// DueOn reports whether t has a deadline on the same local calendar day as now.
func DueOn(t model.Task, now time.Time) bool {
	return t.DueAt != nil && SameDay(*t.DueAt, now)
}

// SameDay reports whether a and b fall on the same calendar day in local time.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
