package notify

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/session"
	"github.com/nhle/taskboard/internal/taskstore"
)

var now = time.Date(2024, time.March, 14, 15, 0, 0, 0, time.Local)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func newWatcher(tasks []model.Task) (*Watcher, *taskstore.Store, *session.Session) {
	store := taskstore.New()
	store.Replace(1, tasks)
	sess := session.New(nil)
	return NewWatcher(store, sess, time.Hour), store, sess
}

func TestScan_SelectsDueNotDoneTasks(t *testing.T) {
	w, _, _ := newWatcher([]model.Task{
		{ID: 1, Status: model.StatusTodo, DueAt: at(-time.Hour)},
		{ID: 2, Status: model.StatusDone, DueAt: at(-time.Hour)},
		{ID: 3, Status: model.StatusDoing, DueAt: at(0)},
		{ID: 4, Status: model.StatusTodo, DueAt: at(time.Minute)},
		{ID: 5, Status: model.StatusTodo},
	})

	n, ok := w.Scan(now)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 3}, n.TaskIDs, "a deadline equal to now fires")
	assert.Equal(t, "2 tasks are overdue", n.Message)
	assert.NotEmpty(t, n.ID)
}

func TestScan_NotifiesEachTaskOnce(t *testing.T) {
	w, store, _ := newWatcher([]model.Task{
		{ID: 1, Status: model.StatusTodo, DueAt: at(-time.Hour)},
	})

	_, ok := w.Scan(now)
	require.True(t, ok)

	_, ok = w.Scan(now.Add(5 * time.Second))
	assert.False(t, ok, "already reminded")

	store.Upsert(model.Task{ID: 2, Status: model.StatusTodo, DueAt: at(time.Second)})
	n, ok := w.Scan(now.Add(10 * time.Second))
	require.True(t, ok)
	assert.Equal(t, []int64{2}, n.TaskIDs)
	assert.Equal(t, "1 task is overdue", n.Message)
}

func TestScan_LogoutResetsReminders(t *testing.T) {
	w, _, sess := newWatcher([]model.Task{
		{ID: 1, Status: model.StatusTodo, DueAt: at(-time.Hour)},
	})

	_, ok := w.Scan(now)
	require.True(t, ok)
	require.NoError(t, sess.End())

	_, ok = w.Scan(now)
	assert.True(t, ok)
}

func TestScan_NothingDue(t *testing.T) {
	w, _, _ := newWatcher(nil)

	_, ok := w.Scan(now)
	assert.False(t, ok)
}

func TestWatcher_LoopDeliversReminder(t *testing.T) {
	store := taskstore.New()
	store.Replace(1, []model.Task{{ID: 7, Status: model.StatusTodo, DueAt: at(-time.Hour)}})
	w := NewWatcher(store, session.New(nil), 10*time.Millisecond)
	w.now = func() time.Time { return now }

	cmd := w.Start()
	require.NotNil(t, cmd)
	defer w.Stop()
	assert.Nil(t, w.Start(), "second start is a no-op")

	done := make(chan OverdueMsg, 1)
	go func() { done <- cmd().(OverdueMsg) }()

	select {
	case msg := <-done:
		assert.Equal(t, []int64{7}, msg.Notification.TaskIDs)
	case <-time.After(2 * time.Second):
		t.Fatal("no reminder delivered")
	}
}

func TestWatcher_StopReleasesPendingWait(t *testing.T) {
	w := NewWatcher(taskstore.New(), session.New(nil), time.Hour)
	cmd := w.Start()
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	w.Stop()

	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("wait still blocked after stop")
	}

	assert.Nil(t, w.WaitForNext()(), "stopped watcher does not block")
}

func TestNewWatcher_DefaultInterval(t *testing.T) {
	w := NewWatcher(taskstore.New(), session.New(nil), 0)
	assert.Equal(t, DefaultInterval, w.Interval())
}

func TestToast(t *testing.T) {
	toast := NewToast(KindError, "boom", 0, now)

	assert.Equal(t, now.Add(DefaultToastTTL), toast.Expires)
	assert.False(t, toast.Expired(now.Add(2*time.Second)))
	assert.True(t, toast.Expired(now.Add(2500*time.Millisecond)))
	assert.NotNil(t, toast.ExpireCmd(now))
}
