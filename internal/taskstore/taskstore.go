// Package taskstore holds the in-memory task list of the selected project.
package taskstore

import (
	"sync"

	"github.com/nhle/taskboard/internal/model"
)

// Store is the client-side copy of one project's tasks. It is safe for
// concurrent use. Writes are last-wins with no versioning.
type Store struct {
	mu        sync.RWMutex
	projectID int64
	tasks     []model.Task
}

// New returns an empty store with no project selected.
func New() *Store {
	return &Store{}
}

// Replace discards the current list and installs tasks for projectID.
func (s *Store) Replace(projectID int64, tasks []model.Task) {
	cp := make([]model.Task, len(tasks))
	copy(cp, tasks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = projectID
	s.tasks = cp
}

// Upsert replaces the task with the same id in place, or prepends it when
// no such task exists.
func (s *Store) Upsert(t model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = t
			return
		}
	}
	s.tasks = append([]model.Task{t}, s.tasks...)
}

// Remove deletes the task with the given id. It reports whether a task was
// removed.
func (s *Store) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the task with the given id.
func (s *Store) Get(id int64) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// ProjectID returns the project the list belongs to, or 0 if none.
func (s *Store) ProjectID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectID
}

// Clear drops every task and deselects the project.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = 0
	s.tasks = nil
}
