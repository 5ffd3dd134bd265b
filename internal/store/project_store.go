package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/taskboard/internal/model"
)

const projectColumns = "id, name, description, created_at"

func validateProject(p model.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name must not be empty: %w", ErrInvalid)
	}
	if len(p.Name) > 255 {
		return fmt.Errorf("project name must be at most 255 characters: %w", ErrInvalid)
	}
	if len(p.Description) > 2000 {
		return fmt.Errorf("project description must be at most 2000 characters: %w", ErrInvalid)
	}
	return nil
}

// ListProjects returns a user's projects, newest first.
func (s *SQLiteStore) ListProjects(ctx context.Context, userID int64) ([]model.Project, error) {
	projects := []model.Project{}
	err := s.db.SelectContext(ctx, &projects,
		"SELECT "+projectColumns+" FROM projects WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project owned by userID.
func (s *SQLiteStore) GetProject(ctx context.Context, userID, id int64) (*model.Project, error) {
	var p model.Project
	err := s.db.GetContext(ctx, &p,
		"SELECT "+projectColumns+" FROM projects WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %d: %w", id, err)
	}
	return &p, nil
}

// CreateProject inserts a new project for userID.
func (s *SQLiteStore) CreateProject(ctx context.Context, userID int64, p model.Project) (model.Project, error) {
	if err := validateProject(p); err != nil {
		return model.Project{}, err
	}
	p.CreatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (user_id, name, description, created_at)
		VALUES (?, ?, ?, ?)`,
		userID, p.Name, p.Description, p.CreatedAt,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("creating project: %w", err)
	}
	if p.ID, err = result.LastInsertId(); err != nil {
		return model.Project{}, fmt.Errorf("reading project id: %w", err)
	}
	return p, nil
}

// UpdateProject renames an existing project.
func (s *SQLiteStore) UpdateProject(ctx context.Context, userID int64, p model.Project) (model.Project, error) {
	if err := validateProject(p); err != nil {
		return model.Project{}, err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE projects SET name = ?, description = ? WHERE id = ? AND user_id = ?",
		p.Name, p.Description, p.ID, userID,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("updating project %d: %w", p.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return model.Project{}, fmt.Errorf("project %d: %w", p.ID, ErrNotFound)
	}

	updated, err := s.GetProject(ctx, userID, p.ID)
	if err != nil {
		return model.Project{}, err
	}
	return *updated, nil
}

// DeleteProject removes a project. Its tasks are removed by cascade.
func (s *SQLiteStore) DeleteProject(ctx context.Context, userID, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return nil
}

// ClearAll deletes every task and project. Users and tokens are kept.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return fmt.Errorf("clearing projects: %w", err)
	}
	return tx.Commit()
}
