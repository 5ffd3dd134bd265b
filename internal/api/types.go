package api

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/taskboard/internal/model"
)

// DefaultPageSize is the page size used when listing a project's tasks.
const DefaultPageSize = 200

// TaskQuery holds the server-side search parameters for listing tasks.
type TaskQuery struct {
	Keyword string
	Status  model.Status
	Tags    []string
	Page    int
	Size    int
	Sort    string
}

// Values encodes q as URL query parameters. Size defaults to
// DefaultPageSize.
func (q TaskQuery) Values() url.Values {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	for _, tag := range q.Tags {
		v.Add("tags", tag)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	size := q.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	v.Set("size", strconv.Itoa(size))
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// TaskInput is the payload for creating a task.
type TaskInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      model.Status   `json:"status,omitempty"`
	Priority    model.Priority `json:"priority,omitempty"`
	DueAt       *time.Time     `json:"dueAt,omitempty"`
	RemindAt    *time.Time     `json:"remindAt,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

// TaskPatch is a partial update; only non-nil fields are sent.
type TaskPatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Status      *model.Status   `json:"status,omitempty"`
	Priority    *model.Priority `json:"priority,omitempty"`
	DueAt       *time.Time      `json:"dueAt,omitempty"`
	RemindAt    *time.Time      `json:"remindAt,omitempty"`
	Tags        *[]string       `json:"tags,omitempty"`
}

// ProjectInput is the payload for creating or renaming a project.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Credentials are the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// ProfileUpdate is the payload for editing the current user.
type ProfileUpdate struct {
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// taskResponse mirrors the backend task JSON with lenient timestamps.
type taskResponse struct {
	ID          int64          `json:"id"`
	ProjectID   int64          `json:"projectId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      model.Status   `json:"status"`
	Priority    model.Priority `json:"priority"`
	DueAt       timestamp      `json:"dueAt"`
	RemindAt    timestamp      `json:"remindAt"`
	Tags        []string       `json:"tags"`
	Archived    bool           `json:"archived"`
	CreatedAt   timestamp      `json:"createdAt"`
	UpdatedAt   timestamp      `json:"updatedAt"`
}

type projectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   timestamp `json:"createdAt"`
}

// timestamp decodes any JSON value without failing. Strings in the common
// ISO-8601 shapes and epoch milliseconds are accepted; anything else leaves
// the value unset.
type timestamp struct {
	t  time.Time
	ok bool
}

var timestampLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", true},
}

func (ts *timestamp) UnmarshalJSON(data []byte) error {
	*ts = timestamp{}
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if raw[0] != '"' {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			ts.t, ts.ok = time.UnixMilli(ms), true
		}
		return nil
	}
	s, err := strconv.Unquote(raw)
	if err != nil {
		return nil
	}
	ts.t, ts.ok = ParseTime(s)
	return nil
}

// ParseTime parses s in any of the accepted timestamp shapes. Values without
// a zone are read as local time.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if l.local {
			t, err = time.ParseInLocation(l.layout, s, time.Local)
		} else {
			t, err = time.Parse(l.layout, s)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (ts timestamp) ptr() *time.Time {
	if !ts.ok {
		return nil
	}
	t := ts.t
	return &t
}

func (ts timestamp) value() time.Time {
	if !ts.ok {
		return time.Time{}
	}
	return ts.t
}
