package app

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/api"
	"github.com/nhle/taskboard/internal/logger"
	"github.com/nhle/taskboard/internal/model"
)

// Backend is the slice of the REST client the TUI drives.
type Backend interface {
	Login(ctx context.Context, creds api.Credentials) (*api.LoginResponse, error)
	Register(ctx context.Context, reg api.Registration) (model.User, error)
	SendCode(ctx context.Context, email string) error
	Me(ctx context.Context) (model.User, error)

	ListProjects(ctx context.Context) ([]model.Project, error)
	CreateProject(ctx context.Context, in api.ProjectInput) (model.Project, error)
	UpdateProject(ctx context.Context, id int64, in api.ProjectInput) (model.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	ListTasks(ctx context.Context, projectID int64, q api.TaskQuery) (*model.Page[model.Task], error)
	CreateTask(ctx context.Context, projectID int64, in api.TaskInput) (model.Task, error)
	UpdateTask(ctx context.Context, taskID int64, patch api.TaskPatch) (model.Task, error)
	SetStatus(ctx context.Context, taskID int64, s model.Status) (model.Task, error)
	SetPriority(ctx context.Context, taskID int64, p model.Priority) (model.Task, error)
	ArchiveTask(ctx context.Context, taskID int64) error
	DeleteTask(ctx context.Context, taskID int64) error
	ClearAll(ctx context.Context) error
}

// retaggedMsg carries the tasks rewritten by a tag rename or removal.
type retaggedMsg struct {
	from  string
	to    string
	tasks []model.Task
	err   error
}

// sessionRestoredMsg reports the outcome of restoring the saved session.
type sessionRestoredMsg struct {
	loggedIn bool
	err      error
}

// projectsLoadedMsg carries the user's projects.
type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

// tasksLoadedMsg carries one project's tasks.
type tasksLoadedMsg struct {
	projectID int64
	tasks     []model.Task
	err       error
}

// taskSavedMsg is sent after a task is created or updated.
type taskSavedMsg struct {
	task model.Task
	verb string
	err  error
}

// taskRemovedMsg is sent after a task is archived or deleted.
type taskRemovedMsg struct {
	id   int64
	verb string
	err  error
}

// projectSavedMsg is sent after a project is created or renamed.
type projectSavedMsg struct {
	project model.Project
	created bool
	err     error
}

// projectDeletedMsg is sent after a project is deleted.
type projectDeletedMsg struct {
	id   int64
	name string
	err  error
}

// loginResultMsg carries the login response.
type loginResultMsg struct {
	resp *api.LoginResponse
	err  error
}

// codeSentMsg is sent after a verification code was requested.
type codeSentMsg struct {
	email string
	err   error
}

// registeredMsg is sent after a registration attempt.
type registeredMsg struct {
	user model.User
	err  error
}

// wipedMsg is sent after every project and task was cleared.
type wipedMsg struct{ err error }

// configSavedMsg is sent after the config file was rewritten.
type configSavedMsg struct{ err error }

func (m *Model) restoreSession() tea.Cmd {
	sess, backend := m.session, m.api
	return func() tea.Msg {
		ok, err := sess.Restore(context.Background(), backend.Me)
		return sessionRestoredMsg{loggedIn: ok, err: err}
	}
}

func (m *Model) loadProjects() tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		projects, err := backend.ListProjects(context.Background())
		return projectsLoadedMsg{projects: projects, err: err}
	})
}

func (m *Model) loadTasks(projectID int64) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		page, err := backend.ListTasks(context.Background(), projectID, api.TaskQuery{})
		if err != nil {
			return tasksLoadedMsg{projectID: projectID, err: err}
		}
		return tasksLoadedMsg{projectID: projectID, tasks: page.Content}
	})
}

func (m *Model) createTask(projectID int64, in api.TaskInput) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		t, err := backend.CreateTask(context.Background(), projectID, in)
		return taskSavedMsg{task: t, verb: "created", err: err}
	})
}

func (m *Model) updateTask(id int64, patch api.TaskPatch, verb string) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		t, err := backend.UpdateTask(context.Background(), id, patch)
		return taskSavedMsg{task: t, verb: verb, err: err}
	})
}

// retag rewrites from to to on every loaded task carrying it, one request
// per task. Tasks saved before a failure are still reported.
func (m *Model) retag(from, to string) tea.Cmd {
	backend := m.api
	type change struct {
		id   int64
		tags []string
	}
	var changes []change
	for _, t := range m.tasks.Tasks() {
		if tags, ok := Retag(t.Tags, from, to); ok {
			changes = append(changes, change{id: t.ID, tags: tags})
		}
	}
	return m.inFlight(func() tea.Msg {
		out := retaggedMsg{from: from, to: to}
		for _, c := range changes {
			tags := c.tags
			t, err := backend.UpdateTask(context.Background(), c.id, api.TaskPatch{Tags: &tags})
			if err != nil {
				out.err = err
				break
			}
			out.tasks = append(out.tasks, t)
		}
		return out
	})
}

func (m *Model) setStatus(id int64, s model.Status) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		t, err := backend.SetStatus(context.Background(), id, s)
		return taskSavedMsg{task: t, verb: "moved to " + s.Label(), err: err}
	})
}

func (m *Model) setPriority(id int64, p model.Priority) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		t, err := backend.SetPriority(context.Background(), id, p)
		return taskSavedMsg{task: t, verb: "set to " + strings.ToLower(string(p)), err: err}
	})
}

func (m *Model) archiveTask(id int64) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		err := backend.ArchiveTask(context.Background(), id)
		return taskRemovedMsg{id: id, verb: "archived", err: err}
	})
}

func (m *Model) deleteTask(id int64) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		err := backend.DeleteTask(context.Background(), id)
		return taskRemovedMsg{id: id, verb: "deleted", err: err}
	})
}

func (m *Model) saveProject(id int64, in api.ProjectInput) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		ctx := context.Background()
		if id == 0 {
			p, err := backend.CreateProject(ctx, in)
			return projectSavedMsg{project: p, created: true, err: err}
		}
		p, err := backend.UpdateProject(ctx, id, in)
		return projectSavedMsg{project: p, err: err}
	})
}

func (m *Model) deleteProject(id int64, name string) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		err := backend.DeleteProject(context.Background(), id)
		return projectDeletedMsg{id: id, name: name, err: err}
	})
}

func (m *Model) login(email, password string) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		resp, err := backend.Login(context.Background(), api.Credentials{Email: email, Password: password})
		return loginResultMsg{resp: resp, err: err}
	})
}

func (m *Model) sendCode(email string) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		err := backend.SendCode(context.Background(), email)
		return codeSentMsg{email: email, err: err}
	})
}

func (m *Model) register(reg api.Registration) tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		u, err := backend.Register(context.Background(), reg)
		return registeredMsg{user: u, err: err}
	})
}

func (m *Model) wipe() tea.Cmd {
	backend := m.api
	return m.inFlight(func() tea.Msg {
		return wipedMsg{err: backend.ClearAll(context.Background())}
	})
}

func (m *Model) saveConfig() tea.Cmd {
	path := m.configPath
	if path == "" {
		return nil
	}
	cfg := m.cfg
	return func() tea.Msg {
		err := model.SaveConfig(path, &cfg)
		if err != nil {
			logger.L().Sugar().Warnf("saving config: %v", err)
		}
		return configSavedMsg{err: err}
	}
}
