package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// DefaultToastTTL is how long a toast stays visible by default.
const DefaultToastTTL = 2500 * time.Millisecond

// Kind classifies a toast.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
	KindInfo
)

// Toast is a short-lived message shown over the current view.
type Toast struct {
	ID      string
	Kind    Kind
	Text    string
	Expires time.Time
}

// NewToast returns a toast expiring ttl after now.
func NewToast(kind Kind, text string, ttl time.Duration, now time.Time) Toast {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return Toast{
		ID:      uuid.NewString(),
		Kind:    kind,
		Text:    text,
		Expires: now.Add(ttl),
	}
}

// Expired reports whether the toast should no longer be shown at now.
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}

// ToastExpiredMsg is sent when a toast's lifetime ends.
type ToastExpiredMsg struct {
	ID string
}

// ExpireCmd returns a command that fires ToastExpiredMsg at the toast's expiry.
func (t Toast) ExpireCmd(now time.Time) tea.Cmd {
	d := t.Expires.Sub(now)
	if d < 0 {
		d = 0
	}
	id := t.ID
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}
