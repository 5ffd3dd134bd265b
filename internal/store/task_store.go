package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskboard/internal/model"
)

// DefaultPageSize is used when a search does not specify a page size.
const DefaultPageSize = 20

// taskRow is the database representation of a task.
type taskRow struct {
	ID          int64        `db:"id"`
	ProjectID   int64        `db:"project_id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Status      string       `db:"status"`
	Priority    string       `db:"priority"`
	DueAt       sql.NullTime `db:"due_at"`
	RemindAt    sql.NullTime `db:"remind_at"`
	Tags        string       `db:"tags"`
	Archived    bool         `db:"archived"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   sql.NullTime `db:"updated_at"`
}

const taskColumns = `t.id, t.project_id, t.title, t.description, t.status, t.priority,
	t.due_at, t.remind_at, t.tags, t.archived, t.created_at, t.updated_at`

// sortColumns maps API sort fields to columns.
var sortColumns = map[string]string{
	"id":        "t.id",
	"createdAt": "t.created_at",
	"updatedAt": "t.updated_at",
	"dueAt":     "t.due_at",
	"priority":  "t.priority",
	"title":     "t.title",
	"status":    "t.status",
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func (r taskRow) toModel() model.Task {
	tags := []string{}
	if r.Tags != "" {
		_ = json.Unmarshal([]byte(r.Tags), &tags)
	}
	return model.Task{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		Description: r.Description,
		Status:      model.Status(r.Status),
		Priority:    model.Priority(r.Priority),
		DueAt:       timePtr(r.DueAt),
		RemindAt:    timePtr(r.RemindAt),
		Tags:        tags,
		Archived:    r.Archived,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   timePtr(r.UpdatedAt),
	}
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(data), nil
}

func validateTask(t model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title must not be empty: %w", ErrInvalid)
	}
	if len(t.Title) > 255 {
		return fmt.Errorf("task title must be at most 255 characters: %w", ErrInvalid)
	}
	if len(t.Description) > 2000 {
		return fmt.Errorf("task description must be at most 2000 characters: %w", ErrInvalid)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", t.Status, ErrInvalid)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("unknown priority %q: %w", t.Priority, ErrInvalid)
	}
	return nil
}

// SearchTasks returns one page of a project's non-archived tasks.
func (s *SQLiteStore) SearchTasks(ctx context.Context, userID, projectID int64, f TaskFilter) (model.Page[model.Task], error) {
	if _, err := s.GetProject(ctx, userID, projectID); err != nil {
		return model.Page[model.Task]{}, err
	}

	where := []string{"t.project_id = ?", "t.archived = 0"}
	args := []any{projectID}

	if f.Keyword != "" {
		like := "%" + strings.ToLower(f.Keyword) + "%"
		where = append(where, "(LOWER(t.title) LIKE ? OR LOWER(t.description) LIKE ?)")
		args = append(args, like, like)
	}
	if f.Status != nil {
		where = append(where, "t.status = ?")
		args = append(args, string(*f.Status))
	}
	if len(f.Tags) > 0 {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(t.tags) j WHERE j.value IN (?))")
		args = append(args, f.Tags)
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		return model.Page[model.Task]{}, fmt.Errorf("unknown sort field %q: %w", sortBy, ErrInvalid)
	}
	direction := "DESC"
	if f.SortAsc {
		direction = "ASC"
	}

	size := f.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := f.Page
	if page < 0 {
		page = 0
	}

	cond := strings.Join(where, " AND ")
	countQuery, countArgs, err := sqlx.In("SELECT COUNT(*) FROM tasks t WHERE "+cond, args...)
	if err != nil {
		return model.Page[model.Task]{}, fmt.Errorf("building count query: %w", err)
	}
	var total int64
	if err := s.db.GetContext(ctx, &total, s.db.Rebind(countQuery), countArgs...); err != nil {
		return model.Page[model.Task]{}, fmt.Errorf("counting tasks: %w", err)
	}

	listQuery, listArgs, err := sqlx.In(
		fmt.Sprintf("SELECT %s FROM tasks t WHERE %s ORDER BY %s %s, t.id %s LIMIT ? OFFSET ?",
			taskColumns, cond, column, direction, direction),
		append(args, size, page*size)...,
	)
	if err != nil {
		return model.Page[model.Task]{}, fmt.Errorf("building search query: %w", err)
	}
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(listQuery), listArgs...); err != nil {
		return model.Page[model.Task]{}, fmt.Errorf("searching tasks: %w", err)
	}

	content := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		content = append(content, r.toModel())
	}
	return model.Page[model.Task]{
		Content:       content,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
		Size:          size,
		Number:        page,
	}, nil
}

// CreateTask inserts a task into a project owned by userID. Status defaults
// to TODO and priority to MEDIUM.
func (s *SQLiteStore) CreateTask(ctx context.Context, userID, projectID int64, t model.Task) (model.Task, error) {
	if _, err := s.GetProject(ctx, userID, projectID); err != nil {
		return model.Task{}, err
	}
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if err := validateTask(t); err != nil {
		return model.Task{}, err
	}
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return model.Task{}, err
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (project_id, title, description, status, priority,
			due_at, remind_at, tags, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		projectID, t.Title, t.Description, string(t.Status), string(t.Priority),
		nullTime(t.DueAt), nullTime(t.RemindAt), tags, now, now,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Task{}, fmt.Errorf("reading task id: %w", err)
	}

	created, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return model.Task{}, err
	}
	return *created, nil
}

// GetTask returns a task whose project is owned by userID. Archived tasks
// are included.
func (s *SQLiteStore) GetTask(ctx context.Context, userID, id int64) (*model.Task, error) {
	var r taskRow
	err := s.db.GetContext(ctx, &r, `
		SELECT `+taskColumns+`
		FROM tasks t JOIN projects p ON p.id = t.project_id
		WHERE t.id = ? AND p.user_id = ?`,
		id, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}
	t := r.toModel()
	return &t, nil
}

// UpdateTask applies the non-nil fields of c.
func (s *SQLiteStore) UpdateTask(ctx context.Context, userID, id int64, c TaskChanges) (model.Task, error) {
	current, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return model.Task{}, err
	}

	t := *current
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.Status != nil {
		t.Status = *c.Status
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
	}
	if c.DueAt != nil {
		t.DueAt = c.DueAt
	}
	if c.RemindAt != nil {
		t.RemindAt = c.RemindAt
	}
	if c.Tags != nil {
		t.Tags = *c.Tags
	}
	if err := validateTask(t); err != nil {
		return model.Task{}, err
	}
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return model.Task{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, status = ?, priority = ?,
			due_at = ?, remind_at = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, string(t.Status), string(t.Priority),
		nullTime(t.DueAt), nullTime(t.RemindAt), tags, time.Now().UTC(),
		id,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("updating task %d: %w", id, err)
	}

	updated, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return model.Task{}, err
	}
	return *updated, nil
}

// ArchiveTask flags a task archived so searches skip it.
func (s *SQLiteStore) ArchiveTask(ctx context.Context, userID, id int64) error {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET archived = ?, updated_at = ? WHERE id = ?",
		boolToInt(true), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("archiving task %d: %w", id, err)
	}
	return nil
}

// DeleteTask removes a task.
func (s *SQLiteStore) DeleteTask(ctx context.Context, userID, id int64) error {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return nil
}
