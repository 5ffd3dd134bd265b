package app

import (
	"strings"
	"time"

	"github.com/nhle/taskboard/internal/api"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/ui/taskform"
)

// ValidationError is a client-side input problem. It blocks the request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// ValidateLogin checks the login form.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return invalid("enter your email and password")
	}
	return nil
}

// ValidateEmail checks the address a verification code is sent to.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("enter your email first")
	}
	if !strings.Contains(email, "@") {
		return invalid("email address looks wrong")
	}
	return nil
}

// ValidateRegistration checks the registration form.
func ValidateRegistration(email, password, confirm, code string) error {
	if err := ValidateLogin(email, password); err != nil {
		return err
	}
	if password != confirm {
		return invalid("passwords do not match")
	}
	if strings.TrimSpace(code) == "" {
		return invalid("enter the verification code")
	}
	return nil
}

// ValidateProjectName checks a project name.
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("project name is required")
	}
	return nil
}

// ParseWhen parses an optional local date-time in taskform.DueLayout. A
// bare date means the end of that day.
func ParseWhen(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(taskform.DueLayout, s, time.Local); err == nil {
		return &t, nil
	}
	if d, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		t := d.Add(23*time.Hour + 59*time.Minute)
		return &t, nil
	}
	return nil, invalid("dates must look like YYYY-MM-DD HH:MM")
}

// SplitTags turns comma separated input into tags, keeping order and
// duplicates but dropping blanks.
func SplitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

// Retag replaces every tag equal to from, ignoring case, with to. An empty
// to drops the tag. It reports whether anything changed.
func Retag(tags []string, from, to string) ([]string, bool) {
	out := make([]string, 0, len(tags))
	changed := false
	for _, tag := range tags {
		if !strings.EqualFold(tag, from) {
			out = append(out, tag)
			continue
		}
		changed = true
		if to != "" {
			out = append(out, to)
		}
	}
	return out, changed
}

// ParseDraft validates form input and builds the create payload.
func ParseDraft(d taskform.Draft) (api.TaskInput, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return api.TaskInput{}, invalid("title is required")
	}
	due, err := ParseWhen(d.Due)
	if err != nil {
		return api.TaskInput{}, err
	}
	remind, err := ParseWhen(d.Remind)
	if err != nil {
		return api.TaskInput{}, err
	}

	in := api.TaskInput{
		Title:       title,
		Description: strings.TrimSpace(d.Description),
		Status:      d.Status,
		Priority:    d.Priority,
		DueAt:       due,
		RemindAt:    remind,
		Tags:        SplitTags(d.Tags),
	}
	if !in.Status.Valid() {
		in.Status = model.StatusTodo
	}
	if !in.Priority.Valid() {
		in.Priority = model.PriorityMedium
	}
	return in, nil
}

// PatchFrom turns a validated payload into a full update.
func PatchFrom(in api.TaskInput) api.TaskPatch {
	tags := in.Tags
	return api.TaskPatch{
		Title:       &in.Title,
		Description: &in.Description,
		Status:      &in.Status,
		Priority:    &in.Priority,
		DueAt:       in.DueAt,
		RemindAt:    in.RemindAt,
		Tags:        &tags,
	}
}

// NextStatus is the status s advances to: TODO, DOING, DONE, then back.
func NextStatus(s model.Status) model.Status {
	switch s {
	case model.StatusTodo:
		return model.StatusDoing
	case model.StatusDoing:
		return model.StatusDone
	default:
		return model.StatusTodo
	}
}

// NextPriority is the priority p steps up to, wrapping after CRITICAL.
func NextPriority(p model.Priority) model.Priority {
	for i, v := range model.Priorities {
		if v == p {
			return model.Priorities[(i+1)%len(model.Priorities)]
		}
	}
	return model.PriorityMedium
}
