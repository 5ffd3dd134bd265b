// Package store is the SQLite persistence layer behind the development
// backend.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/taskboard/internal/model"
)

var (
	// ErrNotFound is returned when a row does not exist or is not owned by
	// the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("already exists")

	// ErrInvalid is returned when input fails validation.
	ErrInvalid = errors.New("invalid input")
)

// TaskFilter controls filtering, sorting, and pagination for task searches.
type TaskFilter struct {
	Keyword string
	Status  *model.Status
	Tags    []string // any of these tags (OR logic)
	Page    int
	Size    int
	SortBy  string // "createdAt", "updatedAt", "dueAt", "priority", "title", "status", "id"
	SortAsc bool
}

// TaskChanges lists the fields of a partial task update. Nil fields keep
// their stored value.
type TaskChanges struct {
	Title       *string
	Description *string
	Status      *model.Status
	Priority    *model.Priority
	DueAt       *time.Time
	RemindAt    *time.Time
	Tags        *[]string
}

// UserRecord is a user row including the password hash.
type UserRecord struct {
	model.User
	PasswordHash string `db:"password_hash"`
}

// Store defines the persistence interface for users, sessions, projects
// and tasks. Every project and task operation is scoped to a user.
type Store interface {
	// === Users ===

	CreateUser(ctx context.Context, u UserRecord) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, displayName, avatarURL string) (model.User, error)

	// === Tokens ===

	CreateToken(ctx context.Context, token string, userID int64) error
	UserIDForToken(ctx context.Context, token string) (int64, error)

	// === Projects ===

	ListProjects(ctx context.Context, userID int64) ([]model.Project, error)
	GetProject(ctx context.Context, userID, id int64) (*model.Project, error)
	CreateProject(ctx context.Context, userID int64, p model.Project) (model.Project, error)
	UpdateProject(ctx context.Context, userID int64, p model.Project) (model.Project, error)
	DeleteProject(ctx context.Context, userID, id int64) error

	// === Tasks ===

	SearchTasks(ctx context.Context, userID, projectID int64, f TaskFilter) (model.Page[model.Task], error)
	CreateTask(ctx context.Context, userID, projectID int64, t model.Task) (model.Task, error)
	GetTask(ctx context.Context, userID, id int64) (*model.Task, error)
	UpdateTask(ctx context.Context, userID, id int64, c TaskChanges) (model.Task, error)
	ArchiveTask(ctx context.Context, userID, id int64) error
	DeleteTask(ctx context.Context, userID, id int64) error

	// === Admin ===

	ClearAll(ctx context.Context) error

	Close() error
}
