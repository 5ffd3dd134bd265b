package cli

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/credential"
	"github.com/nhle/taskboard/internal/devserver"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/session"
	"github.com/nhle/taskboard/internal/stats"
	"github.com/nhle/taskboard/tests/testutil"
)

func newEnv(t *testing.T) (*Env, *testutil.Backend) {
	t.Helper()

	b := testutil.NewBackend(t)
	cfg := model.DefaultAppConfig()
	cfg.API.BaseURL = b.URL
	tokens := credential.NewStore(keyring.NewArrayKeyring(nil))

	return &Env{
		Config: cfg,
		OpenTokens: func(model.CredentialConfig) (session.TokenStore, error) {
			return tokens, nil
		},
	}, b
}

func run(t *testing.T, env *Env, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	root := NewRootCmd(env)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, env *Env, args ...string) string {
	t.Helper()
	got, err := run(t, env, args...)
	require.NoError(t, err, "taskboard %s", strings.Join(args, " "))
	return got
}

func loginDemo(t *testing.T, env *Env) {
	t.Helper()
	mustRun(t, env, "login", "-e", devserver.DemoEmail, "-p", devserver.DemoPassword)
}

func TestLoginWhoamiLogout(t *testing.T) {
	env, _ := newEnv(t)

	got := mustRun(t, env, "login", "-e", devserver.DemoEmail, "-p", devserver.DemoPassword)
	assert.Equal(t, "Logged in as Demo user\n", got)

	got = mustRun(t, env, "whoami")
	assert.Contains(t, got, "Demo user <"+devserver.DemoEmail+">")

	var u model.User
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, env, "whoami", "--json")), &u))
	assert.Equal(t, devserver.DemoEmail, u.Email)

	assert.Equal(t, "Logged out\n", mustRun(t, env, "logout"))

	_, err := run(t, env, "whoami")
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}

func TestLogin_WrongPassword(t *testing.T) {
	env, _ := newEnv(t)

	_, err := run(t, env, "login", "-e", devserver.DemoEmail, "-p", "wrong")
	require.Error(t, err)

	_, err = run(t, env, "whoami")
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}

func TestRegister(t *testing.T) {
	env, b := newEnv(t)

	_, err := run(t, env, "send-code", "not-an-email")
	assert.EqualError(t, err, "email address looks wrong")

	assert.Equal(t, "Verification code sent to new@example.com\n", mustRun(t, env, "send-code", "new@example.com"))
	code := b.LastCode(t, "new@example.com")

	_, err = run(t, env, "register", "-e", "new@example.com", "-p", "pw1", "--confirm", "pw2", "-c", code)
	assert.EqualError(t, err, "passwords do not match")

	got := mustRun(t, env, "register", "-e", "new@example.com", "-p", "pw1", "-c", code)
	assert.Contains(t, got, "Registered new@example.com")

	mustRun(t, env, "login", "-e", "new@example.com", "-p", "pw1")
	got = mustRun(t, env, "profile", "--name", "Newcomer")
	assert.Contains(t, got, "Newcomer <new@example.com>")
}

func TestProjectsAndTasks(t *testing.T) {
	env, _ := newEnv(t)
	loginDemo(t, env)

	assert.Equal(t, "No projects\n", mustRun(t, env, "projects"))

	var p model.Project
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, env, "projects", "add", "Inbox", "--json")), &p))
	require.NotZero(t, p.ID)
	pid := strconv.FormatInt(p.ID, 10)

	var bug model.Task
	raw := mustRun(t, env, "tasks", "add", pid, "Fix bug in login", "-p", "high", "-t", "ui, api", "--json")
	require.NoError(t, json.Unmarshal([]byte(raw), &bug))
	assert.Equal(t, model.PriorityHigh, bug.Priority)
	assert.Equal(t, []string{"ui", "api"}, bug.Tags)
	mustRun(t, env, "tasks", "add", pid, "Add feature")

	got := mustRun(t, env, "tasks", pid, "--search", "bug")
	assert.Contains(t, got, "Fix bug in login")
	assert.NotContains(t, got, "Add feature")
	assert.Contains(t, got, "1 of 2 tasks")

	got = mustRun(t, env, "tasks", pid, "--high")
	assert.Contains(t, got, "Fix bug in login")

	bid := strconv.FormatInt(bug.ID, 10)
	got = mustRun(t, env, "tasks", "status", bid, "done")
	assert.Contains(t, got, "DONE")

	var snap stats.Snapshot
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, env, "stats", pid, "--json")), &snap))
	assert.Equal(t, 2, snap.Total)
	assert.Equal(t, 1, snap.Done)
	assert.Equal(t, 50, snap.Gauge)

	assert.Contains(t, mustRun(t, env, "stats", pid), "2 tasks, 50% done")

	assert.Equal(t, "Archived task "+bid+"\n", mustRun(t, env, "tasks", "archive", bid))
	got = mustRun(t, env, "tasks", pid)
	assert.NotContains(t, got, "Fix bug in login")

	assert.Contains(t, mustRun(t, env, "projects", "rename", pid, "Home"), `Renamed project `+pid+` "Home"`)
	assert.Contains(t, mustRun(t, env, "projects"), "Home")

	assert.Equal(t, "Deleted project "+pid+"\n", mustRun(t, env, "projects", "rm", pid))
	assert.Equal(t, "No projects\n", mustRun(t, env, "projects"))
}

func TestTasks_BadInput(t *testing.T) {
	env, _ := newEnv(t)
	loginDemo(t, env)

	_, err := run(t, env, "tasks", "abc")
	assert.EqualError(t, err, `invalid project id "abc"`)

	_, err = run(t, env, "tasks", "1", "--status", "later")
	assert.EqualError(t, err, `unknown status "later"`)

	_, err = run(t, env, "tasks", "add", "1", "   ")
	assert.EqualError(t, err, "title is required")

	_, err = run(t, env, "tasks", "add", "1", "x", "--due", "friday")
	assert.EqualError(t, err, "dates must look like YYYY-MM-DD HH:MM")
}

func TestClear(t *testing.T) {
	env, _ := newEnv(t)
	loginDemo(t, env)
	mustRun(t, env, "projects", "add", "Doomed")

	assert.Equal(t, "All projects and tasks cleared\n", mustRun(t, env, "clear", "--yes"))
	assert.Equal(t, "No projects\n", mustRun(t, env, "projects"))
}

func TestPrintJSON_Indents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
