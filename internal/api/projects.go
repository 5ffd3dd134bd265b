package api

import (
	"context"
	"fmt"

	"github.com/nhle/taskboard/internal/model"
)

// ListProjects returns the current user's projects, newest first.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var rs []projectResponse
	if err := c.Get(ctx, "/projects", nil, &rs); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	out := make([]model.Project, 0, len(rs))
	for _, r := range rs {
		out = append(out, toProject(r))
	}
	return out, nil
}

// GetProject fetches a single project.
func (c *Client) GetProject(ctx context.Context, id int64) (model.Project, error) {
	var r projectResponse
	if err := c.Get(ctx, fmt.Sprintf("/projects/%d", id), nil, &r); err != nil {
		return model.Project{}, fmt.Errorf("getting project %d: %w", id, err)
	}
	return toProject(r), nil
}

// CreateProject creates a project owned by the current user.
func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (model.Project, error) {
	var r projectResponse
	if err := c.Post(ctx, "/projects", nil, in, &r); err != nil {
		return model.Project{}, fmt.Errorf("creating project: %w", err)
	}
	return toProject(r), nil
}

// UpdateProject renames a project.
func (c *Client) UpdateProject(ctx context.Context, id int64, in ProjectInput) (model.Project, error) {
	var r projectResponse
	if err := c.Put(ctx, fmt.Sprintf("/projects/%d", id), in, &r); err != nil {
		return model.Project{}, fmt.Errorf("updating project %d: %w", id, err)
	}
	return toProject(r), nil
}

// DeleteProject removes a project and its tasks.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	if err := c.Delete(ctx, fmt.Sprintf("/projects/%d", id)); err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}
	return nil
}
