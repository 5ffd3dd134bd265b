package model

import "time"

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo     Status = "TODO"
	StatusDoing    Status = "DOING"
	StatusDone     Status = "DONE"
	StatusArchived Status = "ARCHIVED"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone, StatusArchived}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable name for the status.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusDoing:
		return "Doing"
	case StatusDone:
		return "Done"
	case StatusArchived:
		return "Archived"
	default:
		return string(s)
	}
}

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// IsHighTier reports whether p belongs to the "high and above" tier.
func (p Priority) IsHighTier() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// Task is a unit of work belonging to one project.
type Task struct {
	// ID is the backend-assigned identifier.
	ID int64 `json:"id"`

	// ProjectID is the owning project.
	ProjectID int64 `json:"projectId"`

	// Title is the short summary. Never empty.
	Title string `json:"title"`

	// Description is the optional body text. Empty means absent.
	Description string `json:"description,omitempty"`

	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`

	// DueAt is the optional deadline.
	DueAt *time.Time `json:"dueAt,omitempty"`

	// RemindAt is the optional reminder time. Stored but unused by the client.
	RemindAt *time.Time `json:"remindAt,omitempty"`

	// Tags is an ordered list of labels. Duplicates are allowed.
	Tags []string `json:"tags"`

	Archived  bool       `json:"archived"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// IsOverdue reports whether the task's deadline is strictly before now and
// the task is not done.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueAt != nil && t.DueAt.Before(now) && t.Status != StatusDone
}

// IsDue reports whether the task's deadline has been reached at now and the
// task is not done. Unlike IsOverdue, a deadline equal to now counts.
func (t Task) IsDue(now time.Time) bool {
	return t.DueAt != nil && !t.DueAt.After(now) && t.Status != StatusDone
}
