package api

import (
	"context"
	"fmt"

	"github.com/nhle/taskboard/internal/model"
)

// ListTasks returns one page of a project's non-archived tasks.
func (c *Client) ListTasks(ctx context.Context, projectID int64, q TaskQuery) (*model.Page[model.Task], error) {
	var page model.Page[taskResponse]
	path := fmt.Sprintf("/projects/%d/tasks", projectID)
	if err := c.Get(ctx, path, q.Values(), &page); err != nil {
		return nil, fmt.Errorf("listing tasks of project %d: %w", projectID, err)
	}
	return &model.Page[model.Task]{
		Content:       toTasks(page.Content),
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Size:          page.Size,
		Number:        page.Number,
	}, nil
}

// CreateTask creates a task in the given project.
func (c *Client) CreateTask(ctx context.Context, projectID int64, in TaskInput) (model.Task, error) {
	var r taskResponse
	path := fmt.Sprintf("/projects/%d/tasks", projectID)
	if err := c.Post(ctx, path, nil, in, &r); err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}
	return toTask(r), nil
}

// UpdateTask applies a partial update and returns the updated task.
func (c *Client) UpdateTask(ctx context.Context, taskID int64, patch TaskPatch) (model.Task, error) {
	var r taskResponse
	if err := c.Put(ctx, fmt.Sprintf("/tasks/%d", taskID), patch, &r); err != nil {
		return model.Task{}, fmt.Errorf("updating task %d: %w", taskID, err)
	}
	return toTask(r), nil
}

// SetStatus is a convenience wrapper around UpdateTask.
func (c *Client) SetStatus(ctx context.Context, taskID int64, s model.Status) (model.Task, error) {
	return c.UpdateTask(ctx, taskID, TaskPatch{Status: &s})
}

// SetPriority is a convenience wrapper around UpdateTask.
func (c *Client) SetPriority(ctx context.Context, taskID int64, p model.Priority) (model.Task, error) {
	return c.UpdateTask(ctx, taskID, TaskPatch{Priority: &p})
}

// ArchiveTask marks a task archived. Archived tasks drop out of listings.
func (c *Client) ArchiveTask(ctx context.Context, taskID int64) error {
	if err := c.Post(ctx, fmt.Sprintf("/tasks/%d/archive", taskID), nil, nil, nil); err != nil {
		return fmt.Errorf("archiving task %d: %w", taskID, err)
	}
	return nil
}

// DeleteTask permanently removes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	if err := c.Delete(ctx, fmt.Sprintf("/tasks/%d", taskID)); err != nil {
		return fmt.Errorf("deleting task %d: %w", taskID, err)
	}
	return nil
}

// ClearAll wipes every project and task on the backend.
func (c *Client) ClearAll(ctx context.Context) error {
	if err := c.Delete(ctx, "/admin/clear"); err != nil {
		return fmt.Errorf("clearing database: %w", err)
	}
	return nil
}
