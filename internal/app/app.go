package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/api"
	"github.com/nhle/taskboard/internal/filter"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/logger"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/notify"
	"github.com/nhle/taskboard/internal/session"
	"github.com/nhle/taskboard/internal/stats"
	"github.com/nhle/taskboard/internal/taskstore"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
	"github.com/nhle/taskboard/internal/ui/board"
	"github.com/nhle/taskboard/internal/ui/config"
	"github.com/nhle/taskboard/internal/ui/command"
	"github.com/nhle/taskboard/internal/ui/dashboard"
	"github.com/nhle/taskboard/internal/ui/detail"
	helpview "github.com/nhle/taskboard/internal/ui/help"
	"github.com/nhle/taskboard/internal/ui/login"
	"github.com/nhle/taskboard/internal/ui/plans"
	"github.com/nhle/taskboard/internal/ui/projects"
	"github.com/nhle/taskboard/internal/ui/tagmgr"
	"github.com/nhle/taskboard/internal/ui/taskform"
	"github.com/nhle/taskboard/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewBoard
	ViewStats
	ViewPlans
	ViewDetail
	ViewHelp
	ViewCommand
	ViewLogin
	ViewTaskForm
	ViewProjects
	ViewTags
	ViewSettings
)

// mainViews are the views tab cycles through.
var mainViews = []ViewState{ViewList, ViewBoard, ViewStats, ViewPlans}

func isMainView(v ViewState) bool {
	for _, mv := range mainViews {
		if mv == v {
			return true
		}
	}
	return false
}

// Options wires the root model to its collaborators.
type Options struct {
	Config     *model.AppConfig
	API        Backend
	Session    *session.Session
	ConfigPath string

	// Now is the clock used for filtering and reminders. Defaults to time.Now.
	Now func() time.Time
}

// doneMsg wraps the result of a backend call so the in-flight counter can
// be settled before the result is applied.
type doneMsg struct{ msg tea.Msg }

// Model is the root Bubble Tea model. It owns the task store, routes
// messages to the active view and recomputes every derived view from the
// store and the filter criteria on each update.
type Model struct {
	cfg        model.AppConfig
	configPath string
	api        Backend
	session    *session.Session
	now        func() time.Time

	tasks   *taskstore.Store
	watcher *notify.Watcher

	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	ready        bool
	keys         *keys.KeyMap

	taskList    tasklist.Model
	board       board.Model
	dashboard   dashboard.Model
	plans       plans.Model
	detail      detail.Model
	helpView    helpview.Model
	commandView command.Model
	loginView   login.Model
	taskForm    taskform.Model
	projectView projects.Model
	tagView     tagmgr.Model
	settings    config.Model

	projects []model.Project
	current  *model.Project
	visible  []model.Task

	toast     *notify.Toast
	themeName string
	spinner   spinner.Model
	pending   int
}

// New creates the root model.
func New(opts Options) Model {
	cfg := model.DefaultAppConfig()
	if opts.Config != nil {
		cfg = opts.Config
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New(nil)
	}

	k := keys.DefaultKeyMap()
	tasks := taskstore.New()
	watcher := notify.NewWatcher(tasks, sess, cfg.Notify.Interval())

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		cfg:         *cfg,
		configPath:  opts.ConfigPath,
		api:         opts.API,
		session:     sess,
		now:         now,
		tasks:       tasks,
		watcher:     watcher,
		keys:        k,
		taskList:    tasklist.New(k, 80, 24),
		board:       board.New(k, 80, 24),
		dashboard:   dashboard.New(80, 24),
		plans:       plans.New(k, 80, 24),
		detail:      detail.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		loginView:   login.New(80, 24),
		taskForm:    taskform.New(80, 24),
		projectView: projects.New(k, 80, 24),
		tagView:     tagmgr.New(k, 80, 24),
		settings:    config.New(80, 24),
		themeName:   theme.Apply(cfg.Display.Theme),
		spinner:     sp,
	}
	m.taskList.SetNow(now)
	return m
}

// Init restores the saved session and starts the overdue watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.restoreSession(),
		m.watcher.Start(),
		m.spinner.Tick,
	)
}

// Update handles a message and then recomputes the derived views.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if c := next.refresh(); c != nil {
		cmd = tea.Batch(cmd, c)
	}
	return next, cmd
}

// refresh feeds the filtered tasks to the list and the board.
func (m *Model) refresh() tea.Cmd {
	all := m.tasks.Tasks()
	m.visible = filter.Apply(all, m.taskList.Criteria(), m.now())
	m.board.SetTasks(m.visible)
	m.tagView.SetTasks(all, m.taskList.Criteria().Tag)
	return m.taskList.SetTasks(m.visible, len(all))
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.taskList.SetSize(w, h)
		m.board.SetSize(w, h)
		m.dashboard.SetSize(w, h)
		m.plans.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.loginView.SetSize(w, h)
		m.taskForm.SetSize(w, h)
		m.projectView.SetSize(w, h)
		m.tagView.SetSize(w, h)
		m.settings.SetSize(w, h)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case doneMsg:
		if m.pending > 0 {
			m.pending--
		}
		return m.update(msg.msg)

	case sessionRestoredMsg:
		if msg.err != nil {
			logger.Warnf("restoring session: %v", msg.err)
		}
		if !msg.loggedIn {
			cmd := m.openLogin()
			if msg.err != nil {
				cmd = tea.Batch(cmd, m.fail(msg.err))
			}
			return m, cmd
		}
		u, _ := m.session.User()
		load := m.loadProjects()
		out := tea.Batch(load, m.info("Welcome back, "+u.Name()))
		return m, out

	case projectsLoadedMsg:
		if msg.err != nil {
			out := m.fail(msg.err)
			return m, out
		}
		out := m.applyProjects(msg.projects)
		return m, out

	case tasksLoadedMsg:
		if m.current == nil || msg.projectID != m.current.ID {
			return m, nil
		}
		if msg.err != nil {
			out := m.fail(msg.err)
			return m, out
		}
		m.tasks.Replace(msg.projectID, msg.tasks)
		return m, nil

	case taskSavedMsg:
		if msg.err != nil {
			out := m.fail(msg.err)
			return m, out
		}
		m.tasks.Upsert(msg.task)
		m.detail.Refresh(msg.task)
		out := m.success(fmt.Sprintf("Task %q %s", msg.task.Title, msg.verb))
		return m, out

	case taskRemovedMsg:
		if msg.err != nil {
			out := m.fail(msg.err)
			return m, out
		}
		m.tasks.Remove(msg.id)
		if t, ok := m.detail.Task(); ok && t.ID == msg.id && m.currentView == ViewDetail {
			m.currentView = m.previousView
		}
		out := m.success("Task " + msg.verb)
		return m, out

	case retaggedMsg:
		for _, t := range msg.tasks {
			m.tasks.Upsert(t)
		}
		if c := m.taskList.Criteria(); strings.EqualFold(c.Tag, msg.from) {
			c.Tag = msg.to
			m.taskList.SetCriteria(c)
		}
		if msg.err != nil {
			out := m.fail(msg.err)
			return m, out
		}
		text := fmt.Sprintf("Renamed #%s to #%s on %s", msg.from, msg.to, plural(len(msg.tasks), "task"))
		if msg.to == "" {
			text = fmt.Sprintf("Removed #%s from %s", msg.from, plural(len(msg.tasks), "task"))
		}
		out := m.success(text)
		return m, out

	case projectSavedMsg:
		if msg.err != nil {
			out := m.fail(msg.err)
			return m, out
		}
		out := m.applySavedProject(msg.project, msg.created)
		return m, out

	case projectDeletedMsg:
		if msg.err != nil {
			out := m.fail(msg.err)
			return m, out
		}
		out := m.applyDeletedProject(msg.id, msg.name)
		return m, out

	case loginResultMsg:
		if msg.err != nil {
			reopen := m.loginView.Reopen()
			out := tea.Batch(reopen, m.fail(msg.err))
			return m, out
		}
		if err := m.session.Begin(msg.resp.Token, msg.resp.User); err != nil {
			logger.Warnf("saving token: %v", err)
		}
		m.currentView = ViewList
		load := m.loadProjects()
		out := tea.Batch(load, m.success("Logged in as "+msg.resp.User.Name()))
		return m, out

	case codeSentMsg:
		if msg.err != nil {
			restart := m.loginView.StartRegister()
			out := tea.Batch(restart, m.fail(msg.err))
			return m, out
		}
		out := m.info("Verification code sent to " + msg.email)
		return m, out

	case registeredMsg:
		if msg.err != nil {
			reopen := m.loginView.Reopen()
			out := tea.Batch(reopen, m.fail(msg.err))
			return m, out
		}
		relogin := m.loginView.StartLogin()
		out := tea.Batch(relogin, m.success("Registered "+msg.user.Email+", please log in"))
		return m, out

	case wipedMsg:
		if msg.err != nil {
			out := m.fail(msg.err)
			return m, out
		}
		m.tasks.Clear()
		m.projects = nil
		m.current = nil
		m.projectView.SetProjects(nil, 0)
		out := m.success("All projects and tasks cleared")
		return m, out

	case configSavedMsg:
		if msg.err != nil {
			out := m.fail(msg.err)
			return m, out
		}
		return m, nil

	case notify.OverdueMsg:
		toast := m.info(msg.Notification.Message)
		return m, tea.Batch(toast, m.watcher.WaitForNext())

	case notify.ToastExpiredMsg:
		if m.toast != nil && m.toast.ID == msg.ID {
			m.toast = nil
		}
		return m, nil

	case tasklist.SelectedTaskMsg:
		m.detail.SetTask(msg.Task)
		m.switchTo(ViewDetail)
		return m, nil

	case detail.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case taskform.SubmittedMsg:
		return m.submitTask(msg)

	case taskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case projects.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case projects.ChosenMsg:
		p := msg.Project
		m.current = &p
		m.tasks.Replace(p.ID, nil)
		m.currentView = ViewList
		load := m.loadTasks(p.ID)
		out := tea.Batch(load, m.info("Switched to "+p.Name))
		return m, out

	case projects.SaveMsg:
		if err := ValidateProjectName(msg.Name); err != nil {
			out := m.fail(err)
			return m, out
		}
		if cmd := m.gate(); cmd != nil {
			return m, cmd
		}
		save := m.saveProject(msg.ID, api.ProjectInput{Name: msg.Name, Description: msg.Description})
		return m, save

	case projects.DeleteMsg:
		if cmd := m.gate(); cmd != nil {
			return m, cmd
		}
		del := m.deleteProject(msg.ID, msg.Name)
		return m, del

	case config.SavedMsg:
		m.currentView = m.previousView
		moved := msg.Config.API.BaseURL != m.cfg.API.BaseURL ||
			msg.Config.Notify.IntervalSec != m.cfg.Notify.IntervalSec
		m.cfg = msg.Config
		save := m.saveConfig()
		text := "Settings saved"
		if moved {
			text = "Settings saved, backend and reminder changes apply after a restart"
		}
		out := tea.Batch(save, m.success(text))
		return m, out

	case config.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tagmgr.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case tagmgr.ChosenMsg:
		c := m.taskList.Criteria()
		c.Tag = msg.Tag
		m.taskList.SetCriteria(c)
		m.currentView = m.previousView
		text := "Tag filter cleared"
		if msg.Tag != "" {
			text = "Filtering by #" + msg.Tag
		}
		out := m.info(text)
		return m, out

	case tagmgr.RenameMsg:
		if err := tagmgr.ValidateTag(msg.To); err != nil {
			out := m.fail(err)
			return m, out
		}
		if cmd := m.gate(); cmd != nil {
			return m, cmd
		}
		cmd := m.retag(msg.From, strings.TrimSpace(msg.To))
		return m, cmd

	case tagmgr.RemoveMsg:
		if cmd := m.gate(); cmd != nil {
			return m, cmd
		}
		cmd := m.retag(msg.Tag, "")
		return m, cmd

	case login.LoginSubmitMsg:
		if err := ValidateLogin(msg.Email, msg.Password); err != nil {
			reopen := m.loginView.Reopen()
			out := tea.Batch(reopen, m.fail(err))
			return m, out
		}
		cmd := m.login(msg.Email, msg.Password)
		return m, cmd

	case login.SendCodeMsg:
		if err := ValidateEmail(msg.Email); err != nil {
			restart := m.loginView.StartRegister()
			out := tea.Batch(restart, m.fail(err))
			return m, out
		}
		cmd := m.sendCode(msg.Email)
		return m, cmd

	case login.RegisterSubmitMsg:
		if err := ValidateRegistration(msg.Email, msg.Password, msg.Confirm, msg.Code); err != nil {
			reopen := m.loginView.Reopen()
			out := tea.Batch(reopen, m.fail(err))
			return m, out
		}
		cmd := m.register(api.Registration{Email: msg.Email, Password: msg.Password, Code: msg.Code})
		return m, cmd

	case login.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case plans.CheckoutMsg:
		if cmd := m.gate(); cmd != nil {
			return m, cmd
		}
		text := fmt.Sprintf("Checkout with %s for %s is a demo only", plans.MethodLabel(msg.Method), msg.Plan.Name)
		out := m.info(text)
		return m, out

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

// handleKey processes global keys before delegating to the active view.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.watcher.Stop()
		return m, tea.Quit
	}
	if m.inputFocused() {
		return m.updateActiveView(msg)
	}

	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
			m.currentView = m.previousView
			return m, nil
		}
		return m.updateActiveView(msg)
	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil
		}
		return m.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if isMainView(m.currentView) {
			m.watcher.Stop()
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.Help):
		m.switchTo(ViewHelp)
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.switchTo(ViewCommand)
		cmd := m.commandView.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.NextView):
		if isMainView(m.currentView) {
			m.currentView = nextMainView(m.currentView)
			return m, nil
		}

	case key.Matches(msg, m.keys.Refresh):
		return m.reload()

	case key.Matches(msg, m.keys.Projects):
		return m.openProjects()

	case key.Matches(msg, m.keys.Settings):
		if isMainView(m.currentView) {
			out := m.openSettings()
			return m, out
		}

	case key.Matches(msg, m.keys.Tags):
		if isMainView(m.currentView) {
			return m.openTags()
		}

	case key.Matches(msg, m.keys.Login):
		if isMainView(m.currentView) {
			out := m.openLogin()
			return m, out
		}

	case key.Matches(msg, m.keys.Logout):
		if isMainView(m.currentView) {
			return m.logout()
		}

	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()

	case key.Matches(msg, m.keys.New):
		if isMainView(m.currentView) || m.currentView == ViewDetail {
			return m.openCreate()
		}

	case key.Matches(msg, m.keys.Edit, m.keys.Delete, m.keys.Archive, m.keys.CycleStatus, m.keys.CyclePriority):
		if t, ok := m.selectedTask(); ok {
			return m.taskAction(msg, t)
		}

	case key.Matches(msg, m.keys.FilterStatus, m.keys.FilterTier, m.keys.FilterDueToday, m.keys.ClearFilters):
		if m.currentView == ViewBoard || m.currentView == ViewStats {
			var cmd tea.Cmd
			m.taskList, cmd = m.taskList.Update(msg)
			return m, cmd
		}
	}

	return m.updateActiveView(msg)
}

// inputFocused reports whether a form or text input owns the keyboard.
func (m Model) inputFocused() bool {
	switch m.currentView {
	case ViewLogin, ViewTaskForm, ViewSettings:
		return true
	case ViewList:
		return m.taskList.Searching()
	case ViewProjects:
		return m.projectView.Editing()
	case ViewTags:
		return m.tagView.Editing()
	case ViewPlans:
		return m.plans.InForm()
	}
	return false
}

func nextMainView(v ViewState) ViewState {
	for i, mv := range mainViews {
		if mv == v {
			return mainViews[(i+1)%len(mainViews)]
		}
	}
	return ViewList
}

// switchTo opens v, remembering the main view to return to.
func (m *Model) switchTo(v ViewState) {
	if isMainView(m.currentView) {
		m.previousView = m.currentView
	}
	m.currentView = v
}

// selectedTask returns the task the user is pointing at in the active view.
func (m Model) selectedTask() (model.Task, bool) {
	switch m.currentView {
	case ViewList:
		return m.taskList.Selected()
	case ViewBoard:
		return m.board.Selected()
	case ViewDetail:
		return m.detail.Task()
	}
	return model.Task{}, false
}

// taskAction runs the mutation bound to msg on t.
func (m Model) taskAction(msg tea.KeyMsg, t model.Task) (Model, tea.Cmd) {
	if cmd := m.gate(); cmd != nil {
		return m, cmd
	}
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Edit):
		m.switchTo(ViewTaskForm)
		cmd = m.taskForm.StartEdit(t)
	case key.Matches(msg, m.keys.Delete):
		cmd = m.deleteTask(t.ID)
	case key.Matches(msg, m.keys.Archive):
		cmd = m.archiveTask(t.ID)
	case key.Matches(msg, m.keys.CycleStatus):
		cmd = m.setStatus(t.ID, NextStatus(t.Status))
	case key.Matches(msg, m.keys.CyclePriority):
		cmd = m.setPriority(t.ID, NextPriority(t.Priority))
	}
	return m, cmd
}

func (m Model) openCreate() (Model, tea.Cmd) {
	if cmd := m.gate(); cmd != nil {
		return m, cmd
	}
	if m.current == nil {
		out := m.fail(errors.New("create a project first (P)"))
		return m, out
	}
	m.switchTo(ViewTaskForm)
	cmd := m.taskForm.StartCreate()
	return m, cmd
}

func (m Model) submitTask(msg taskform.SubmittedMsg) (Model, tea.Cmd) {
	in, err := ParseDraft(msg.Draft)
	if err != nil {
		resume := m.taskForm.Resume()
		out := tea.Batch(resume, m.fail(err))
		return m, out
	}
	if cmd := m.gate(); cmd != nil {
		return m, cmd
	}
	m.currentView = m.previousView
	if msg.ID != 0 {
		cmd := m.updateTask(msg.ID, PatchFrom(in), "updated")
		return m, cmd
	}
	if m.current == nil {
		out := m.fail(errors.New("create a project first (P)"))
		return m, out
	}
	cmd := m.createTask(m.current.ID, in)
	return m, cmd
}

func (m Model) openProjects() (Model, tea.Cmd) {
	if cmd := m.gate(); cmd != nil {
		return m, cmd
	}
	var currentID int64
	if m.current != nil {
		currentID = m.current.ID
	}
	m.projectView.SetProjects(m.projects, currentID)
	m.switchTo(ViewProjects)
	return m, nil
}

func (m Model) openTags() (Model, tea.Cmd) {
	if cmd := m.gate(); cmd != nil {
		return m, cmd
	}
	if m.current == nil {
		out := m.fail(errors.New("create a project first (P)"))
		return m, out
	}
	m.tagView.SetTasks(m.tasks.Tasks(), m.taskList.Criteria().Tag)
	m.switchTo(ViewTags)
	return m, nil
}

func (m *Model) openSettings() tea.Cmd {
	m.switchTo(ViewSettings)
	return m.settings.Start(m.cfg)
}

func (m *Model) openLogin() tea.Cmd {
	m.switchTo(ViewLogin)
	return m.loginView.StartLogin()
}

func (m Model) reload() (Model, tea.Cmd) {
	if cmd := m.gate(); cmd != nil {
		return m, cmd
	}
	cmd := m.loadProjects()
	return m, cmd
}

func (m Model) logout() (Model, tea.Cmd) {
	if !m.session.LoggedIn() {
		out := m.info("Not logged in")
		return m, out
	}
	if err := m.session.End(); err != nil {
		logger.Warnf("clearing token: %v", err)
	}
	m.tasks.Clear()
	m.projects = nil
	m.current = nil
	out := m.success("Logged out")
	return m, out
}

func (m Model) toggleTheme() (Model, tea.Cmd) {
	m.themeName = theme.Apply(theme.Toggle(m.themeName))
	m.cfg.Display.Theme = m.themeName
	save := m.saveConfig()
	out := tea.Batch(save, m.info("Theme: "+m.themeName))
	return m, out
}

// applyProjects keeps the current project when it still exists, falling
// back to the first one, and loads its tasks.
func (m *Model) applyProjects(list []model.Project) tea.Cmd {
	m.projects = list
	var pick *model.Project
	for i := range list {
		if m.current != nil && list[i].ID == m.current.ID {
			pick = &list[i]
			break
		}
	}
	if pick == nil && len(list) > 0 {
		pick = &list[0]
	}
	if pick == nil {
		m.current = nil
		m.tasks.Clear()
		return m.info("No projects yet, press P to create one")
	}
	p := *pick
	m.current = &p
	m.projectView.SetProjects(m.projects, p.ID)
	return m.loadTasks(p.ID)
}

func (m *Model) applySavedProject(p model.Project, created bool) tea.Cmd {
	replaced := false
	for i := range m.projects {
		if m.projects[i].ID == p.ID {
			m.projects[i] = p
			replaced = true
		}
	}
	if !replaced {
		m.projects = append(m.projects, p)
	}
	var cmds []tea.Cmd
	if m.current == nil {
		m.current = &p
		m.tasks.Replace(p.ID, nil)
		cmds = append(cmds, m.loadTasks(p.ID))
	} else if m.current.ID == p.ID {
		m.current = &p
	}
	m.projectView.SetProjects(m.projects, m.current.ID)

	verb := "renamed"
	if created {
		verb = "created"
	}
	cmds = append(cmds, m.success(fmt.Sprintf("Project %q %s", p.Name, verb)))
	return tea.Batch(cmds...)
}

func (m *Model) applyDeletedProject(id int64, name string) tea.Cmd {
	kept := m.projects[:0:0]
	for _, p := range m.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.projects = kept

	var cmds []tea.Cmd
	if m.current != nil && m.current.ID == id {
		m.current = nil
		m.tasks.Clear()
		if len(kept) > 0 {
			p := kept[0]
			m.current = &p
			cmds = append(cmds, m.loadTasks(p.ID))
		}
	}
	var currentID int64
	if m.current != nil {
		currentID = m.current.ID
	}
	m.projectView.SetProjects(m.projects, currentID)
	cmds = append(cmds, m.success(fmt.Sprintf("Project %q deleted", name)))
	return tea.Batch(cmds...)
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (Model, tea.Cmd) {
	switch cmd {
	case "refresh", "r":
		return m.reload()
	case "list":
		m.currentView = ViewList
	case "board":
		m.currentView = ViewBoard
	case "stats":
		m.currentView = ViewStats
	case "plans":
		m.currentView = ViewPlans
	case "projects":
		return m.openProjects()
	case "tags":
		return m.openTags()
	case "settings":
		out := m.openSettings()
		return m, out
	case "new":
		return m.openCreate()
	case "today":
		c := m.taskList.Criteria()
		c.DueToday = !c.DueToday
		m.taskList.SetCriteria(c)
	case "high":
		c := m.taskList.Criteria()
		if c.Tier == filter.TierHigh {
			c.Tier = filter.TierAll
		} else {
			c.Tier = filter.TierHigh
		}
		m.taskList.SetCriteria(c)
	case "clear":
		m.taskList.ClearFilters()
	case "theme":
		return m.toggleTheme()
	case "login":
		out := m.openLogin()
		return m, out
	case "logout":
		return m.logout()
	case "wipe":
		if c := m.gate(); c != nil {
			return m, c
		}
		wipe := m.wipe()
		return m, wipe
	case "quit", "q":
		m.watcher.Stop()
		return m, tea.Quit
	default:
		out := m.fail(fmt.Errorf("unknown command %q", cmd))
		return m, out
	}
	return m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewBoard:
		m.board, cmd = m.board.Update(msg)
	case ViewPlans:
		m.plans, cmd = m.plans.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewProjects:
		m.projectView, cmd = m.projectView.Update(msg)
	case ViewTags:
		m.tagView, cmd = m.tagView.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

// inFlight counts cmd as a pending backend call until its result arrives.
func (m *Model) inFlight(cmd tea.Cmd) tea.Cmd {
	m.pending++
	return func() tea.Msg { return doneMsg{msg: cmd()} }
}

// gate returns an error toast when nobody is logged in.
func (m *Model) gate() tea.Cmd {
	if err := m.session.RequireLogin(); err != nil {
		return m.fail(err)
	}
	return nil
}

func (m *Model) fail(err error) tea.Cmd {
	if api.IsAuthError(err) && m.session.LoggedIn() {
		if endErr := m.session.End(); endErr != nil {
			logger.Warnf("clearing token: %v", endErr)
		}
		m.tasks.Clear()
		m.projects = nil
		m.current = nil
		err = errors.New("session expired, please log in again")
	}
	logger.Debugf("toast error: %v", err)
	return m.show(notify.KindError, err.Error())
}

func (m *Model) success(text string) tea.Cmd { return m.show(notify.KindSuccess, text) }

func (m *Model) info(text string) tea.Cmd { return m.show(notify.KindInfo, text) }

// show replaces the current toast and schedules its expiry.
func (m *Model) show(kind notify.Kind, text string) tea.Cmd {
	now := m.now()
	t := notify.NewToast(kind, text, m.cfg.Notify.ToastTTL(), now)
	m.toast = &t
	return t.ExpireCmd(now)
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "Taskboard"
	if m.current != nil {
		title = "Taskboard · " + m.current.Name
	}
	header := m.layout.RenderHeader(title, m.headerStatus())
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.toast)

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// headerStatus shows the spinner while requests are in flight, otherwise
// who is logged in.
func (m Model) headerStatus() string {
	if m.pending > 0 {
		return m.spinner.View() + " syncing"
	}
	if u, ok := m.session.User(); ok {
		return u.Name()
	}
	return "logged out"
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewBoard:
		return m.board.View()
	case ViewStats:
		snap := stats.Dashboard(m.tasks.Tasks(), m.visible, m.now())
		return m.dashboard.View(snap, !m.taskList.Criteria().IsZero())
	case ViewPlans:
		return m.plans.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewLogin:
		return m.loginView.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewProjects:
		return m.projectView.View()
	case ViewTags:
		return m.tagView.View()
	case ViewSettings:
		return m.settings.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDetail:
		return "esc back | e edit | s status | p priority | a archive | d delete"
	case ViewLogin:
		return "enter submit | ctrl+r login/register | esc cancel"
	case ViewTaskForm:
		return "enter submit | esc cancel"
	case ViewProjects:
		return "enter open | n new | e rename | d delete | esc back"
	case ViewTags:
		return "enter filter | 0 clear | e rename | d remove | esc back"
	case ViewSettings:
		return "enter next | shift+tab back | esc cancel"
	case ViewPlans:
		return "j/k plan | enter checkout | tab next view"
	case ViewBoard:
		return "h/l column | j/k task | enter open | s status | tab next view"
	}
	if summary := m.taskList.FilterSummary(); summary != "" {
		return summary + " | 0 clear"
	}
	return "q quit | ? help | n new | / search | 1 status | 2 priority | 3 today | tab view"
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
