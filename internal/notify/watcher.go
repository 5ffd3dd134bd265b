// Package notify raises reminders for tasks whose deadline has passed and
// models the transient toasts the views display.
package notify

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/taskboard/internal/logger"
	"github.com/nhle/taskboard/internal/model"
)

// DefaultInterval is the scan period used when none is configured.
const DefaultInterval = 5 * time.Second

// TaskSource provides the tasks to scan.
type TaskSource interface {
	Tasks() []model.Task
}

// Tracker remembers which task ids were already reminded.
type Tracker interface {
	MarkNotified(ids []int64) []int64
}

// OverdueMsg is a tea.Msg carrying one reminder.
type OverdueMsg struct {
	Notification model.Notification
}

// Watcher periodically scans the task list and emits one reminder per scan
// covering tasks that have not been reminded before.
type Watcher struct {
	tasks    TaskSource
	seen     Tracker
	interval time.Duration
	now      func() time.Time

	resultCh chan OverdueMsg
	stopCh   chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a watcher over tasks using seen for de-duplication.
func NewWatcher(tasks TaskSource, seen Tracker, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		tasks:    tasks,
		seen:     seen,
		interval: interval,
		now:      time.Now,
		resultCh: make(chan OverdueMsg, 16),
	}
}

// Interval returns the scan period.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// Scan selects tasks due at or before now that are not done and were not
// reminded yet, marks them reminded and returns a notification for them.
// ok is false when there is nothing new.
func (w *Watcher) Scan(now time.Time) (n model.Notification, ok bool) {
	var due []int64
	for _, t := range w.tasks.Tasks() {
		if t.IsDue(now) {
			due = append(due, t.ID)
		}
	}
	if len(due) == 0 {
		return model.Notification{}, false
	}

	fresh := w.seen.MarkNotified(due)
	if len(fresh) == 0 {
		return model.Notification{}, false
	}

	return model.Notification{
		ID:        uuid.NewString(),
		TaskIDs:   fresh,
		Message:   OverdueMessage(len(fresh)),
		CreatedAt: now,
	}, true
}

// OverdueMessage renders the reminder text for n tasks.
func OverdueMessage(n int) string {
	if n == 1 {
		return "1 task is overdue"
	}
	return fmt.Sprintf("%d tasks are overdue", n)
}

// Start launches the scan loop and returns a command that delivers the
// first reminder. Calling Start on a running watcher returns nil.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()

	go w.loop(stop)
	return w.WaitForNext()
}

// Stop halts the scan loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.stopCh)
	w.running = false
}

func (w *Watcher) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n, ok := w.Scan(w.now()); ok {
				logger.L().Sugar().Infof("reminder for tasks %v", n.TaskIDs)
				w.send(OverdueMsg{Notification: n})
			}
		}
	}
}

// send delivers msg without blocking the loop.
func (w *Watcher) send(msg OverdueMsg) {
	select {
	case w.resultCh <- msg:
	default:
	}
}

// WaitForNext returns a tea.Cmd that blocks until the next reminder. Call
// it again after handling each OverdueMsg to keep listening. The command
// returns nil once the watcher is stopped.
func (w *Watcher) WaitForNext() tea.Cmd {
	w.mu.Lock()
	stop, running := w.stopCh, w.running
	w.mu.Unlock()

	return func() tea.Msg {
		if !running {
			return nil
		}
		select {
		case msg := <-w.resultCh:
			return msg
		case <-stop:
			return nil
		}
	}
}
