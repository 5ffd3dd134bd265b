package api

import "github.com/nhle/taskboard/internal/model"

// toTask converts a backend task payload into the domain model.
func toTask(r taskResponse) model.Task {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.Task{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		DueAt:       r.DueAt.ptr(),
		RemindAt:    r.RemindAt.ptr(),
		Tags:        tags,
		Archived:    r.Archived,
		CreatedAt:   r.CreatedAt.value(),
		UpdatedAt:   r.UpdatedAt.ptr(),
	}
}

func toTasks(rs []taskResponse) []model.Task {
	out := make([]model.Task, 0, len(rs))
	for _, r := range rs {
		out = append(out, toTask(r))
	}
	return out
}

func toProject(r projectResponse) model.Project {
	return model.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.value(),
	}
}
