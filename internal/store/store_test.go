package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/tests/testutil"
)

func seedUser(t *testing.T, s store.Store, email string) model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), store.UserRecord{
		User:         model.User{Email: email, DisplayName: "tester"},
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func seedProject(t *testing.T, s store.Store, userID int64) model.Project {
	t.Helper()
	p, err := s.CreateProject(context.Background(), userID, model.Project{Name: "Inbox"})
	require.NoError(t, err)
	return p
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	u := seedUser(t, s, "Ann@Example.com")
	assert.NotZero(t, u.ID)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, "USER", u.Role)

	_, err := s.CreateUser(ctx, store.UserRecord{User: model.User{Email: "ann@example.com"}, PasswordHash: "x"})
	assert.ErrorIs(t, err, store.ErrConflict)

	rec, err := s.GetUserByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", rec.PasswordHash)

	updated, err := s.UpdateProfile(ctx, u.ID, "Ann", "http://img/a.png")
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.DisplayName)

	_, err = s.UpdateProfile(ctx, u.ID, " ", "")
	assert.ErrorIs(t, err, store.ErrInvalid)

	_, err = s.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokens(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	u := seedUser(t, s, "a@b.c")

	require.NoError(t, s.CreateToken(ctx, "tok", u.ID))
	id, err := s.UserIDForToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = s.UserIDForToken(ctx, "other")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProjects_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	ann := seedUser(t, s, "ann@x.io")
	bob := seedUser(t, s, "bob@x.io")

	p := seedProject(t, s, ann.ID)
	_, err := s.CreateProject(ctx, ann.ID, model.Project{Name: "  "})
	assert.ErrorIs(t, err, store.ErrInvalid)

	list, err := s.ListProjects(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.GetProject(ctx, bob.ID, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	p.Name = "Renamed"
	renamed, err := s.UpdateProject(ctx, ann.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)

	require.NoError(t, s.DeleteProject(ctx, ann.ID, p.ID))
	assert.ErrorIs(t, s.DeleteProject(ctx, ann.ID, p.ID), store.ErrNotFound)
}

func TestTasks_CreateDefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	u := seedUser(t, s, "a@b.c")
	p := seedProject(t, s, u.ID)

	due := time.Date(2024, 3, 14, 7, 0, 0, 0, time.UTC)
	created, err := s.CreateTask(ctx, u.ID, p.ID, model.Task{Title: "write", Tags: []string{"ui", "ui"}, DueAt: &due})
	require.NoError(t, err)
	assert.Equal(t, model.StatusTodo, created.Status)
	assert.Equal(t, model.PriorityMedium, created.Priority)
	assert.Equal(t, []string{"ui", "ui"}, created.Tags)
	require.NotNil(t, created.DueAt)
	assert.True(t, created.DueAt.Equal(due))
	assert.False(t, created.CreatedAt.IsZero())

	_, err = s.CreateTask(ctx, u.ID, p.ID, model.Task{Title: ""})
	assert.ErrorIs(t, err, store.ErrInvalid)

	done := model.StatusDone
	updated, err := s.UpdateTask(ctx, u.ID, created.ID, store.TaskChanges{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, updated.Status)
	assert.Equal(t, "write", updated.Title, "unset fields are kept")

	bogus := model.Priority("URGENT")
	_, err = s.UpdateTask(ctx, u.ID, created.ID, store.TaskChanges{Priority: &bogus})
	assert.ErrorIs(t, err, store.ErrInvalid)
}

func TestSearchTasks(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	u := seedUser(t, s, "a@b.c")
	p := seedProject(t, s, u.ID)

	mk := func(title, desc string, status model.Status, tags ...string) model.Task {
		task, err := s.CreateTask(ctx, u.ID, p.ID, model.Task{Title: title, Description: desc, Status: status, Tags: tags})
		require.NoError(t, err)
		return task
	}
	a := mk("Fix bug", "", model.StatusTodo, "api")
	b := mk("Add feature", "bug adjacent", model.StatusDoing, "ui")
	c := mk("Docs", "", model.StatusDone)
	require.NoError(t, s.ArchiveTask(ctx, u.ID, c.ID))

	page, err := s.SearchTasks(ctx, u.ID, p.ID, store.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)
	require.Len(t, page.Content, 2)
	assert.Equal(t, b.ID, page.Content[0].ID, "newest first by default")

	page, err = s.SearchTasks(ctx, u.ID, p.ID, store.TaskFilter{Keyword: "BUG"})
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)

	doing := model.StatusDoing
	page, err = s.SearchTasks(ctx, u.ID, p.ID, store.TaskFilter{Status: &doing})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, b.ID, page.Content[0].ID)

	page, err = s.SearchTasks(ctx, u.ID, p.ID, store.TaskFilter{Tags: []string{"api", "db"}})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, a.ID, page.Content[0].ID)

	page, err = s.SearchTasks(ctx, u.ID, p.ID, store.TaskFilter{Size: 1, Page: 1, SortBy: "id", SortAsc: true})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 1)
	assert.Equal(t, b.ID, page.Content[0].ID)

	_, err = s.SearchTasks(ctx, u.ID, p.ID, store.TaskFilter{SortBy: "nope"})
	assert.ErrorIs(t, err, store.ErrInvalid)
}

func TestTasks_OwnershipAndDelete(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	ann := seedUser(t, s, "ann@x.io")
	bob := seedUser(t, s, "bob@x.io")
	p := seedProject(t, s, ann.ID)

	task, err := s.CreateTask(ctx, ann.ID, p.ID, model.Task{Title: "mine"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteTask(ctx, bob.ID, task.ID), store.ErrNotFound)
	_, err = s.CreateTask(ctx, bob.ID, p.ID, model.Task{Title: "theirs"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteTask(ctx, ann.ID, task.ID))
	_, err = s.GetTask(ctx, ann.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	u := seedUser(t, s, "a@b.c")
	p := seedProject(t, s, u.ID)
	_, err := s.CreateTask(ctx, u.ID, p.ID, model.Task{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(ctx))

	list, err := s.ListProjects(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = s.GetUserByID(ctx, u.ID)
	assert.NoError(t, err, "users survive a clear")
}
